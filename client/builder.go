package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/rester/client/decode"
	"github.com/adamwoolhether/rester/client/result"
	"golang.org/x/net/html"
)

// Accepted is the terminal stage of a request: it can only be executed.
// [As] and [AsProto] also execute any stage.
type Accepted[F any] interface {
	// Config returns the request configuration.
	Config() Config[F]

	// AsResponse executes the request and returns the buffered response.
	AsResponse(ctx context.Context) result.Result[*Response, F]
	// AsUnit executes the request, ignoring the response body.
	AsUnit(ctx context.Context) result.Result[result.Unit, F]
	// AsHTML executes the request and returns the body as an HTML string.
	AsHTML(ctx context.Context) result.Result[string, F]
	// AsText executes the request and returns the body as a string.
	AsText(ctx context.Context) result.Result[string, F]
	// AsBlob executes the request and returns the raw body with its media type.
	AsBlob(ctx context.Context) result.Result[decode.Blob, F]
	// AsDocument executes the request and parses the body as an HTML document.
	AsDocument(ctx context.Context) result.Result[*html.Node, F]
}

// Headered is the stage after headers are set; only the Accept header
// remains configurable.
type Headered[F any] interface {
	Accepted[F]

	Accept(mediaType string) Accepted[F]
	AcceptJSON() Accepted[F]
	AcceptHTML() Accepted[F]
	AcceptText() Accepted[F]
}

// Bodied is the stage after the body is set.
type Bodied[F any] interface {
	Headered[F]

	WithHeader(key, value string) Bodied[F]
	WithHeaders(headers map[string]string) Headered[F]
	// WithBearer adds an Authorization header whose token is produced
	// when the request executes.
	WithBearer(token func() string) Bodied[F]
	// WithBearerAsync is WithBearer for token sources that may block or fail.
	WithBearerAsync(token func(context.Context) (string, error)) Bodied[F]
	WithBasicAuth(username, password string) Bodied[F]
}

// Parameterized is the stage after query parameters are set. Every body
// operation also sets the Content-Type header for its representation, so
// the last body set decides the header.
type Parameterized[F any] interface {
	Bodied[F]

	// WithBody sets a raw string body.
	WithBody(body string) Bodied[F]
	// WithBytes sets a raw body of the given content type.
	WithBytes(body []byte, contentType string) Bodied[F]
	// WithJSON encodes body as JSON and sets Content-Type: application/json.
	WithJSON(body any) Bodied[F]
	// WithFormData sets a multipart/form-data body.
	WithFormData(data map[string]string) Bodied[F]
	// WithFormDataURLEncoded sets an application/x-www-form-urlencoded body.
	WithFormDataURLEncoded(data map[string]string) Bodied[F]
}

// Builder is the first stage of a request, exposing every operation.
// Each call returns a new value; the receiver is never modified.
type Builder[F any] interface {
	Parameterized[F]

	// With registers a transform of the low-level request. Transforms run
	// in registration order.
	With(mapper InitMapper) Builder[F]
	WithParameter(key, value string) Builder[F]
	WithParameters(params map[string]string) Parameterized[F]
	// WithQuery merges the `url`-tagged fields of a struct into the
	// query parameters.
	WithQuery(v any) Parameterized[F]
	// WithRequestID adds an X-Request-ID header to every execution.
	WithRequestID() Builder[F]
	// WithValidation validates values decoded by [As] against their
	// `validate` tags. Elements of slices, arrays and maps are checked too.
	WithValidation() Builder[F]
	// WithJSONNumber decodes JSON numbers into any as json.Number.
	WithJSONNumber() Builder[F]
	// MockResponse replaces the network call with fn. It is intended for
	// exercising code against endpoints that do not exist yet.
	MockResponse(fn func() *http.Response) Builder[F]
	// MockJSONBody replaces the network call with a 200 response whose
	// JSON body is produced by fn.
	MockJSONBody(fn func() any) Builder[F]
}

// request is the single implementation behind every stage.
type request[F any] struct {
	cfg Config[F]
}

func newRequest[F any](cfg Config[F]) request[F] {
	return request[F]{cfg: cfg}
}

func (r request[F]) Config() Config[F] { return r.cfg }

func (r request[F]) With(mapper InitMapper) Builder[F] {
	return newRequest(r.cfg.with(mapper))
}

func (r request[F]) WithParameter(key, value string) Builder[F] {
	return newRequest(r.cfg.withParameter(key, value))
}

func (r request[F]) WithParameters(params map[string]string) Parameterized[F] {
	return newRequest(r.cfg.withParameters(params))
}

func (r request[F]) WithQuery(v any) Parameterized[F] {
	return newRequest(r.cfg.withQuery(v))
}

func (r request[F]) WithRequestID() Builder[F] {
	return newRequest(r.cfg.withRequestID())
}

func (r request[F]) WithValidation() Builder[F] {
	return newRequest(r.cfg.withValidation())
}

func (r request[F]) WithJSONNumber() Builder[F] {
	return newRequest(r.cfg.withJSONNumber())
}

func (r request[F]) MockResponse(fn func() *http.Response) Builder[F] {
	return newRequest(r.cfg.withMock(func() (*http.Response, error) { return fn(), nil }))
}

func (r request[F]) MockJSONBody(fn func() any) Builder[F] {
	return newRequest(r.cfg.withMock(mockJSON(fn)))
}

func (r request[F]) WithBody(body string) Bodied[F] {
	return newRequest(r.cfg.withBody(rawBody([]byte(body), "text/plain; charset=utf-8")))
}

func (r request[F]) WithBytes(body []byte, contentType string) Bodied[F] {
	return newRequest(r.cfg.withBody(rawBody(body, contentType)))
}

func (r request[F]) WithJSON(body any) Bodied[F] {
	return newRequest(r.cfg.withBody(jsonBody(body))).WithHeader("Content-Type", "application/json")
}

func (r request[F]) WithFormData(data map[string]string) Bodied[F] {
	return newRequest(r.cfg.withBody(multipartBody(data)))
}

func (r request[F]) WithFormDataURLEncoded(data map[string]string) Bodied[F] {
	return newRequest(r.cfg.withBody(urlEncodedBody(data)))
}

func (r request[F]) WithHeader(key, value string) Bodied[F] {
	return newRequest(r.cfg.withHeader(key, value))
}

func (r request[F]) WithHeaders(headers map[string]string) Headered[F] {
	return newRequest(r.cfg.withHeaders(headers))
}

func (r request[F]) WithBearer(token func() string) Bodied[F] {
	return newRequest(r.cfg.withBearer(token))
}

func (r request[F]) WithBearerAsync(token func(context.Context) (string, error)) Bodied[F] {
	return newRequest(r.cfg.withBearerAsync(token))
}

func (r request[F]) WithBasicAuth(username, password string) Bodied[F] {
	return newRequest(r.cfg.withBasicAuth(username, password))
}

func (r request[F]) Accept(mediaType string) Accepted[F] {
	return newRequest(r.cfg.withHeader("Accept", mediaType))
}

func (r request[F]) AcceptJSON() Accepted[F] { return r.Accept("application/json") }

func (r request[F]) AcceptHTML() Accepted[F] { return r.Accept("text/html") }

func (r request[F]) AcceptText() Accepted[F] { return r.Accept("text/plain") }

// WithFailure replaces the failure mapper of any stage, changing the
// failure type to G. All other configuration is kept.
func WithFailure[G, F any](s Accepted[F], mapper func(Failure) G) Builder[G] {
	return newRequest(withFailure(s.Config(), func(_ context.Context, f Failure) G {
		return mapper(f)
	}))
}

// WithFailureAsync is WithFailure for mappers that may block.
func WithFailureAsync[G, F any](s Accepted[F], mapper func(context.Context, Failure) G) Builder[G] {
	return newRequest(withFailure(s.Config(), mapper))
}

func mockJSON(fn func() any) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		data, err := json.Marshal(fn())
		if err != nil {
			return nil, fmt.Errorf("encoding mock body: %w", err)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       io.NopCloser(bytes.NewReader(data)),
		}, nil
	}
}
