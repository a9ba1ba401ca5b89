package client

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Factory] via [New].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	doer              Doer
	userAgent         string
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
}

// WithClient sets the [http.Client] used to send requests. The client is
// copied, never modified.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithDoer replaces the HTTP client entirely. It cannot be combined with
// WithClient, WithTransport or WithNoFollowRedirects.
func WithDoer(d Doer) Option {
	return func(c *options) error {
		if d == nil {
			return errors.New("doer must not be nil")
		}
		c.doer = d
		return nil
	}
}

// WithUserAgent sets a default User-Agent header on every request. A
// per-request header of the same name overrides it.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithNoFollowRedirects prevents the underlying client from following
// HTTP redirects; the redirect response is returned as is.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to record a span per request.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}
