package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// InitMapper transforms the low-level request description before it is
// sent. Each mapper receives its own copy of the description.
type InitMapper func(Init) Init

// HeaderFunc produces headers when a request executes rather than when
// it is configured, e.g. a bearer token fetched on demand.
type HeaderFunc func(ctx context.Context) (map[string]string, error)

// Init is the low-level description of a request: everything but its URL.
type Init struct {
	Method string
	Header http.Header
	Body   []byte
}

func (in Init) clone() Init {
	return Init{
		Method: in.Method,
		Header: in.Header.Clone(),
		Body:   slices.Clone(in.Body),
	}
}

// Doer sends an HTTP request and returns its response. *http.Client
// satisfies Doer.
type Doer interface {
	Do(r *http.Request) (*http.Response, error)
}

// env is the execution environment shared by every configuration derived
// from one factory. It is never modified after the factory is built.
type env struct {
	doer   Doer
	logger *slog.Logger
	tracer trace.Tracer
}

// Config describes one pending request. It is immutable: every builder
// operation returns a new Config and leaves its receiver untouched, so a
// Config can be forked into any number of independent requests.
type Config[F any] struct {
	method       string
	endpoint     string
	headers      map[string]string
	parameters   url.Values
	paramErr     error
	body         Body
	mappers      []InitMapper
	headersAsync []HeaderFunc
	failure      func(context.Context, Failure) F
	mock         func() (*http.Response, error)
	validate     bool
	useNumber    bool
	env          *env
}

// Method returns the HTTP method.
func (c Config[F]) Method() string { return c.method }

// Endpoint returns the endpoint URL as configured.
func (c Config[F]) Endpoint() string { return c.endpoint }

// Headers returns a copy of the synchronous headers.
func (c Config[F]) Headers() map[string]string { return maps.Clone(c.headers) }

// Parameters returns a copy of the query parameters.
func (c Config[F]) Parameters() url.Values { return cloneValues(c.parameters) }

// Body returns the configured request body.
func (c Config[F]) Body() Body { return c.body }

// DeferredHeaders returns the number of registered deferred header functions.
func (c Config[F]) DeferredHeaders() int { return len(c.headersAsync) }

// Mappers returns the number of registered request mappers.
func (c Config[F]) Mappers() int { return len(c.mappers) }

func (c Config[F]) start(method, endpoint string) Config[F] {
	c.method = method
	c.endpoint = endpoint
	return c
}

func (c Config[F]) with(mapper InitMapper) Config[F] {
	c.mappers = append(slices.Clip(c.mappers), mapper)
	return c
}

func (c Config[F]) withParameter(key, value string) Config[F] {
	c.parameters = cloneValues(c.parameters)
	c.parameters.Set(key, value)
	return c
}

func (c Config[F]) withParameters(params map[string]string) Config[F] {
	c.parameters = cloneValues(c.parameters)
	for k, v := range params {
		c.parameters.Set(k, v)
	}
	return c
}

// withQuery merges the url-tagged fields of v into the parameters. An
// encoding error is held until execution.
func (c Config[F]) withQuery(v any) Config[F] {
	values, err := query.Values(v)
	if err != nil {
		c.paramErr = errors.Join(c.paramErr, fmt.Errorf("encoding query: %w", err))
		return c
	}

	c.parameters = cloneValues(c.parameters)
	for k, vs := range values {
		c.parameters[k] = slices.Clone(vs)
	}
	return c
}

func (c Config[F]) withHeader(key, value string) Config[F] {
	c.headers = cloneHeaders(c.headers, 1)
	c.headers[http.CanonicalHeaderKey(key)] = value
	return c
}

func (c Config[F]) withHeaders(headers map[string]string) Config[F] {
	c.headers = cloneHeaders(c.headers, len(headers))
	for k, v := range headers {
		c.headers[http.CanonicalHeaderKey(k)] = v
	}
	return c
}

func (c Config[F]) withHeaderFunc(fn HeaderFunc) Config[F] {
	c.headersAsync = append(slices.Clip(c.headersAsync), fn)
	return c
}

func (c Config[F]) withBearer(token func() string) Config[F] {
	return c.withHeaderFunc(func(context.Context) (map[string]string, error) {
		return map[string]string{"Authorization": "Bearer " + token()}, nil
	})
}

func (c Config[F]) withBearerAsync(token func(context.Context) (string, error)) Config[F] {
	return c.withHeaderFunc(func(ctx context.Context) (map[string]string, error) {
		t, err := token(ctx)
		if err != nil {
			return nil, fmt.Errorf("bearer token: %w", err)
		}
		return map[string]string{"Authorization": "Bearer " + t}, nil
	})
}

// withBasicAuth sets a synchronous Authorization header.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
func (c Config[F]) withBasicAuth(username, password string) Config[F] {
	auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return c.withHeader("Authorization", "Basic "+auth)
}

// withRequestID tags each execution with an X-Request-ID header: the
// active trace ID when one exists, otherwise a random UUID.
func (c Config[F]) withRequestID() Config[F] {
	return c.withHeaderFunc(func(ctx context.Context) (map[string]string, error) {
		id := uuid.New().String()
		if traceID := trace.SpanFromContext(ctx).SpanContext().TraceID(); traceID.IsValid() {
			id = traceID.String()
		}
		return map[string]string{"X-Request-ID": id}, nil
	})
}

// withBody replaces the body and labels it with its content type,
// overriding the label of any earlier body.
func (c Config[F]) withBody(b Body) Config[F] {
	c.body = b
	if ct := b.ContentType(); ct != "" {
		return c.withHeader("Content-Type", ct)
	}
	return c
}

func (c Config[F]) withMock(fn func() (*http.Response, error)) Config[F] {
	c.mock = fn
	return c
}

func (c Config[F]) withValidation() Config[F] {
	c.validate = true
	return c
}

func (c Config[F]) withJSONNumber() Config[F] {
	c.useNumber = true
	return c
}

// withFailure rebuilds c around a new failure mapper. Go cannot change a
// type parameter in place, so every field is carried over explicitly.
func withFailure[G, F any](c Config[F], fn func(context.Context, Failure) G) Config[G] {
	return Config[G]{
		method:       c.method,
		endpoint:     c.endpoint,
		headers:      c.headers,
		parameters:   c.parameters,
		paramErr:     c.paramErr,
		body:         c.body,
		mappers:      c.mappers,
		headersAsync: c.headersAsync,
		failure:      fn,
		mock:         c.mock,
		validate:     c.validate,
		useNumber:    c.useNumber,
		env:          c.env,
	}
}

func identity(_ context.Context, f Failure) Failure {
	return f
}

// defaultFailure is the mapper of a configuration that never had one set.
func defaultFailure[F any]() func(context.Context, Failure) F {
	if fn, ok := any(identity).(func(context.Context, Failure) F); ok {
		return fn
	}

	return func(context.Context, Failure) F {
		var zero F
		return zero
	}
}

func cloneHeaders(m map[string]string, extra int) map[string]string {
	out := make(map[string]string, len(m)+extra)
	maps.Copy(out, m)
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = slices.Clone(vs)
	}
	return out
}
