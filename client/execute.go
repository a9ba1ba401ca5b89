package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/adamwoolhether/rester/client/decode"
	"github.com/adamwoolhether/rester/client/result"
	"github.com/adamwoolhether/rester/client/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/proto"
)

func (r request[F]) AsResponse(ctx context.Context) result.Result[*Response, F] {
	return execute(ctx, r.cfg, func(resp *Response) (*Response, error) {
		return resp, nil
	})
}

func (r request[F]) AsUnit(ctx context.Context) result.Result[result.Unit, F] {
	return execute(ctx, r.cfg, func(*Response) (result.Unit, error) {
		return result.Unit{}, nil
	})
}

func (r request[F]) AsHTML(ctx context.Context) result.Result[string, F] {
	return execute(ctx, r.cfg, (*Response).Text)
}

func (r request[F]) AsText(ctx context.Context) result.Result[string, F] {
	return execute(ctx, r.cfg, (*Response).Text)
}

func (r request[F]) AsBlob(ctx context.Context) result.Result[decode.Blob, F] {
	return execute(ctx, r.cfg, func(resp *Response) (decode.Blob, error) {
		return resp.Blob(), nil
	})
}

func (r request[F]) AsDocument(ctx context.Context) result.Result[*html.Node, F] {
	return execute(ctx, r.cfg, func(resp *Response) (*html.Node, error) {
		return decode.Document(resp.Body, resp.Header.Get("Content-Type"))
	})
}

// As executes s and decodes a successful JSON body into a T.
func As[T, F any](ctx context.Context, s Accepted[F]) result.Result[T, F] {
	cfg := s.Config()

	return execute(ctx, cfg, func(resp *Response) (T, error) {
		var v T
		if err := decode.JSON(resp.Body, &v, cfg.useNumber); err != nil {
			return v, err
		}

		if cfg.validate {
			if err := validate.Check(v); err != nil {
				return v, fmt.Errorf("validating body: %w", err)
			}
		}

		return v, nil
	})
}

// AsProto executes s and decodes a successful protobuf JSON body into msg.
func AsProto[M proto.Message, F any](ctx context.Context, s Accepted[F], msg M) result.Result[M, F] {
	return execute(ctx, s.Config(), func(resp *Response) (M, error) {
		return msg, decode.Proto(resp.Body, msg)
	})
}

// execute sends the request described by cfg and funnels every outcome
// into a Result: transport exceptions and non-2xx responses become a
// [Failure], an ok response is decoded by fn, and decode errors become a
// Failure as well. The failure mapper runs last.
//
// No deadline or retry is applied here; a transport that never returns
// blocks the caller until ctx, if it carries a deadline, ends the call.
func execute[T, F any](ctx context.Context, cfg Config[F], fn func(*Response) (T, error)) result.Result[T, F] {
	if cfg.env == nil {
		cfg.env = defaultEnv()
	}
	if cfg.failure == nil {
		cfg.failure = defaultFailure[F]()
	}

	env := cfg.env
	start := time.Now()

	ctx, span := env.tracer.Start(ctx, "client.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", cfg.method),
		attribute.String("endpoint", cfg.endpoint),
	)

	sent := result.MapFailure(result.Try(ctx, cfg.send), errorFailure)

	checked := result.BindAsync(ctx, sent, func(ctx context.Context, resp *Response) result.Result[*Response, Failure] {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return result.Create(ctx,
			func(context.Context) bool { return resp.OK() },
			func(context.Context) *Response { return resp },
			func(context.Context) Failure { return responseFailure(resp) },
		)
	})

	decoded := result.BindAsync(ctx, checked, func(ctx context.Context, resp *Response) result.Result[T, Failure] {
		v := result.Try(ctx, func(context.Context) (T, error) { return fn(resp) })
		return result.MapFailure(v, func(err error) Failure {
			return errorFailure(fmt.Errorf("%w: %w", ErrDecode, err))
		})
	})

	decoded.Match(nil, func(f Failure) {
		span.RecordError(f)
		span.SetStatus(codes.Error, f.Error())
	})

	env.logger.Debug("request completed",
		"method", cfg.method,
		"endpoint", cfg.endpoint,
		"status", statusOf(decoded),
		"since", time.Since(start).String(),
	)

	return result.MapFailureAsync(ctx, decoded, cfg.failure)
}

func statusOf[T any](r result.Result[T, Failure]) string {
	f, failed := r.Failure()
	switch {
	case !failed:
		return "ok"
	case f.IsResponse():
		return f.Response.Status
	default:
		return "error: " + f.Err.Error()
	}
}

// send performs steps that may fail with a transport exception: header
// resolution, request assembly, URL construction and the network call.
func (c Config[F]) send(ctx context.Context) (*Response, error) {
	if c.mock != nil {
		resp, err := c.mock()
		if err != nil {
			return nil, fmt.Errorf("mock: %w", err)
		}
		return readResponse(resp, c.env.logger)
	}

	init, err := c.init(ctx)
	if err != nil {
		return nil, err
	}

	u, err := c.url()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, init.Method, u.String(), bytes.NewReader(init.Body))
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	if len(init.Body) == 0 {
		req.Body = http.NoBody
		req.GetBody = nil
		req.ContentLength = 0
	}
	req.Header = init.Header

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.env.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	return readResponse(resp, c.env.logger)
}

// init assembles the low-level request and runs it through every mapper
// in registration order.
func (c Config[F]) init(ctx context.Context) (Init, error) {
	if err := c.body.Err(); err != nil {
		return Init{}, err
	}

	header, err := c.resolveHeaders(ctx)
	if err != nil {
		return Init{}, err
	}

	in := Init{
		Method: c.method,
		Header: header,
		Body:   c.body.Bytes(),
	}

	for _, mapper := range c.mappers {
		in = mapper(in.clone())
	}

	return in, nil
}

// resolveHeaders runs the deferred header functions concurrently, merges
// their output in registration order and lets synchronous headers win.
func (c Config[F]) resolveHeaders(ctx context.Context) (http.Header, error) {
	deferred := make([]map[string]string, len(c.headersAsync))

	var g errgroup.Group
	for i, fn := range c.headersAsync {
		g.Go(func() error {
			r := result.Try(ctx, func(ctx context.Context) (map[string]string, error) {
				return fn(ctx)
			})

			h, ok := r.Value()
			if !ok {
				err, _ := r.Failure()
				return fmt.Errorf("%w %d: %w", ErrHeader, i, err)
			}

			deferred[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	header := make(http.Header, len(c.headers))
	for _, h := range deferred {
		for k, v := range h {
			header.Set(k, v)
		}
	}
	for k, v := range c.headers {
		header.Set(k, v)
	}

	return header, nil
}

// url appends the configured parameters to the endpoint's query string.
// Pairs already present in the endpoint are kept as they are.
func (c Config[F]) url() (*url.URL, error) {
	if c.paramErr != nil {
		return nil, c.paramErr
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidEndpoint, c.endpoint)
	}

	if extra := c.parameters.Encode(); extra != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += extra
	}

	return u, nil
}
