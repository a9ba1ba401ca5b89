package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body included in the
// message of an [UnexpectedStatusError]. The full body stays available
// on [Failure.Response].
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrDecode marks an ok response whose body could not be decoded into
	// the requested shape.
	ErrDecode = errors.New("decode failure")
	// ErrHeader marks a deferred header function that returned an error.
	ErrHeader = errors.New("resolving deferred header")
	// ErrInvalidEndpoint marks an endpoint that is not an absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrNilResponse is returned when a mock response factory returns nil,
	// or a [Doer] returns neither a response nor an error.
	ErrNilResponse = errors.New("nil response")
)

// UnexpectedStatusError describes a completed request whose status code
// was outside the 2xx range.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// Failure is the failure value produced by every execution method before
// the configured failure mapper runs. Exactly one of Response or Err is
// set: Response holds a completed non-2xx response, Err holds a transport
// exception (network, URL, header, encoding or decoding error).
type Failure struct {
	Response *Response
	Err      error
}

func responseFailure(resp *Response) Failure {
	return Failure{Response: resp}
}

func errorFailure(err error) Failure {
	return Failure{Err: err}
}

// IsResponse reports whether f holds a non-2xx response.
func (f Failure) IsResponse() bool {
	return f.Response != nil
}

// StatusCode returns the response status code, or 0 for a transport
// exception.
func (f Failure) StatusCode() int {
	if f.Response == nil {
		return 0
	}

	return f.Response.StatusCode
}

// Error implements the error interface.
func (f Failure) Error() string {
	if err := f.Unwrap(); err != nil {
		return err.Error()
	}

	return "empty failure"
}

// Unwrap returns an [*UnexpectedStatusError] for the response arm and the
// transport exception otherwise.
func (f Failure) Unwrap() error {
	if f.Response != nil {
		return f.statusError()
	}

	return f.Err
}

func (f Failure) statusError() *UnexpectedStatusError {
	body := f.Response.Body
	if len(body) > maxErrBodySize {
		body = body[:maxErrBodySize]
	}

	err := ErrUnexpectedStatusCode
	if f.Response.StatusCode == http.StatusUnauthorized || f.Response.StatusCode == http.StatusForbidden {
		err = errors.Join(ErrUnexpectedStatusCode, ErrAuthFailure)
	}

	return &UnexpectedStatusError{
		StatusCode: f.Response.StatusCode,
		Body:       string(body),
		Err:        err,
	}
}

// MatchFailure folds f by calling onResponse for the response arm or onErr
// for the transport exception arm.
func MatchFailure[R any](f Failure, onResponse func(*Response) R, onErr func(error) R) R {
	if f.Response != nil {
		return onResponse(f.Response)
	}

	return onErr(f.Err)
}
