package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/rester/config"
	"go.opentelemetry.io/otel/trace/noop"
)

// Factory holds the default configuration shared by every [Client] it
// creates. Like a request builder it is immutable: each method returns a
// new Factory.
type Factory[F any] struct {
	cfg Config[F]
}

// New builds a Factory with an empty default configuration. The execution
// environment (HTTP client, logger, tracer) is set through options; it
// defaults to a copy of [http.DefaultClient], [slog.Default] and a no-op
// tracer.
func New(optFns ...Option) (*Factory[Failure], error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	e := defaultEnv()

	if opts.logger != nil {
		e.logger = opts.logger
	}

	if opts.tracer != nil {
		e.tracer = opts.tracer
	}

	if opts.doer != nil {
		if opts.client != nil || opts.rt != nil || opts.noFollowRedirects {
			return nil, errors.New("doer cannot be combined with client, transport or redirect options")
		}
		e.doer = opts.doer
	} else {
		e.doer = httpClient(opts)
	}

	f := &Factory[Failure]{
		cfg: Config[Failure]{
			failure: identity,
			env:     e,
		},
	}

	if opts.userAgent != "" {
		f = f.WithHeader("User-Agent", opts.userAgent)
	}

	return f, nil
}

// FromDefaults builds a Factory seeded with d.
func FromDefaults(d config.Defaults, optFns ...Option) (*Factory[Failure], error) {
	if d.UserAgent != "" {
		optFns = append(optFns, WithUserAgent(d.UserAgent))
	}
	if d.FollowRedirects != nil && !*d.FollowRedirects {
		optFns = append(optFns, WithNoFollowRedirects())
	}

	f, err := New(optFns...)
	if err != nil {
		return nil, err
	}

	f = f.WithHeaders(d.Headers).WithParameters(d.Parameters)

	if d.Accept != "" {
		f = f.Accept(d.Accept)
	}
	if token := d.Token(); token != nil {
		f = f.WithBearer(token)
	}
	if d.RequestID {
		f = f.WithRequestID()
	}
	if d.ValidateResponses {
		f = f.WithValidation()
	}

	return f, nil
}

// defaultEnv is the environment of a factory built without options. It is
// also used by a zero Client.
func defaultEnv() *env {
	return &env{
		doer:   &http.Client{},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}
}

func httpClient(opts options) *http.Client {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.rt != nil {
		hc.Transport = opts.rt
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return hc
}

// Config returns the factory's default configuration.
func (f *Factory[F]) Config() Config[F] { return f.cfg }

// Create freezes the current defaults into a [Client].
func (f *Factory[F]) Create() *Client[F] {
	return &Client[F]{cfg: f.cfg}
}

func (f *Factory[F]) derive(cfg Config[F]) *Factory[F] {
	return &Factory[F]{cfg: cfg}
}

// With registers a default request mapper.
func (f *Factory[F]) With(mapper InitMapper) *Factory[F] { return f.derive(f.cfg.with(mapper)) }

// WithParameter sets a default query parameter.
func (f *Factory[F]) WithParameter(key, value string) *Factory[F] {
	return f.derive(f.cfg.withParameter(key, value))
}

// WithParameters sets default query parameters.
func (f *Factory[F]) WithParameters(params map[string]string) *Factory[F] {
	return f.derive(f.cfg.withParameters(params))
}

// WithQuery merges the `url`-tagged fields of v into the default parameters.
func (f *Factory[F]) WithQuery(v any) *Factory[F] { return f.derive(f.cfg.withQuery(v)) }

// WithHeader sets a default header.
func (f *Factory[F]) WithHeader(key, value string) *Factory[F] {
	return f.derive(f.cfg.withHeader(key, value))
}

// WithHeaders sets default headers.
func (f *Factory[F]) WithHeaders(headers map[string]string) *Factory[F] {
	return f.derive(f.cfg.withHeaders(headers))
}

// WithBearer adds a bearer token produced on every request.
func (f *Factory[F]) WithBearer(token func() string) *Factory[F] {
	return f.derive(f.cfg.withBearer(token))
}

// WithBearerAsync adds a bearer token fetched on every request.
func (f *Factory[F]) WithBearerAsync(token func(context.Context) (string, error)) *Factory[F] {
	return f.derive(f.cfg.withBearerAsync(token))
}

// WithBasicAuth sets default basic credentials.
func (f *Factory[F]) WithBasicAuth(username, password string) *Factory[F] {
	return f.derive(f.cfg.withBasicAuth(username, password))
}

// WithHeaderFunc adds a header function evaluated on every request.
func (f *Factory[F]) WithHeaderFunc(fn HeaderFunc) *Factory[F] {
	return f.derive(f.cfg.withHeaderFunc(fn))
}

// WithRequestID tags every request with an X-Request-ID header.
func (f *Factory[F]) WithRequestID() *Factory[F] { return f.derive(f.cfg.withRequestID()) }

// WithValidation validates every value decoded by [As].
func (f *Factory[F]) WithValidation() *Factory[F] { return f.derive(f.cfg.withValidation()) }

// WithJSONNumber decodes JSON numbers into any as json.Number.
func (f *Factory[F]) WithJSONNumber() *Factory[F] { return f.derive(f.cfg.withJSONNumber()) }

// MockResponse replaces the network call of every request with fn.
func (f *Factory[F]) MockResponse(fn func() *http.Response) *Factory[F] {
	return f.derive(f.cfg.withMock(func() (*http.Response, error) { return fn(), nil }))
}

// MockJSONBody replaces the network call of every request with a 200
// response whose JSON body is produced by fn.
func (f *Factory[F]) MockJSONBody(fn func() any) *Factory[F] {
	return f.derive(f.cfg.withMock(mockJSON(fn)))
}

// WithBody sets a default raw string body.
func (f *Factory[F]) WithBody(body string) *Factory[F] {
	return f.derive(f.cfg.withBody(rawBody([]byte(body), "text/plain; charset=utf-8")))
}

// WithJSON sets a default JSON body and Content-Type header.
func (f *Factory[F]) WithJSON(body any) *Factory[F] {
	return f.derive(f.cfg.withBody(jsonBody(body))).WithHeader("Content-Type", "application/json")
}

// WithFormData sets a default multipart/form-data body.
func (f *Factory[F]) WithFormData(data map[string]string) *Factory[F] {
	return f.derive(f.cfg.withBody(multipartBody(data)))
}

// WithFormDataURLEncoded sets a default url-encoded form body.
func (f *Factory[F]) WithFormDataURLEncoded(data map[string]string) *Factory[F] {
	return f.derive(f.cfg.withBody(urlEncodedBody(data)))
}

// Accept sets the default Accept header.
func (f *Factory[F]) Accept(mediaType string) *Factory[F] {
	return f.derive(f.cfg.withHeader("Accept", mediaType))
}

func (f *Factory[F]) AcceptJSON() *Factory[F] { return f.Accept("application/json") }

func (f *Factory[F]) AcceptHTML() *Factory[F] { return f.Accept("text/html") }

func (f *Factory[F]) AcceptText() *Factory[F] { return f.Accept("text/plain") }

// WithDefaultFailure replaces the factory's failure mapper, changing the
// failure type of every client it creates.
func WithDefaultFailure[G, F any](f *Factory[F], mapper func(Failure) G) *Factory[G] {
	return &Factory[G]{cfg: withFailure(f.cfg, func(_ context.Context, fl Failure) G {
		return mapper(fl)
	})}
}

// WithDefaultFailureAsync is WithDefaultFailure for mappers that may block.
func WithDefaultFailureAsync[G, F any](f *Factory[F], mapper func(context.Context, Failure) G) *Factory[G] {
	return &Factory[G]{cfg: withFailure(f.cfg, mapper)}
}

// Client starts requests from a frozen factory configuration. It is safe
// for concurrent use.
//
// The zero Client sends through the environment [New] builds without
// options. A zero Client[Failure] reports failures unmapped; for other
// failure types it reports the zero F.
type Client[F any] struct {
	cfg Config[F]
}

// Get starts a GET request to endpoint.
func (c *Client[F]) Get(endpoint string) Builder[F] {
	return c.start(http.MethodGet, endpoint)
}

// Post starts a POST request to endpoint.
func (c *Client[F]) Post(endpoint string) Builder[F] {
	return c.start(http.MethodPost, endpoint)
}

// Put starts a PUT request to endpoint.
func (c *Client[F]) Put(endpoint string) Builder[F] {
	return c.start(http.MethodPut, endpoint)
}

// Delete starts a DELETE request to endpoint.
func (c *Client[F]) Delete(endpoint string) Builder[F] {
	return c.start(http.MethodDelete, endpoint)
}

func (c *Client[F]) start(method, endpoint string) Builder[F] {
	return newRequest(c.cfg.start(method, endpoint))
}
