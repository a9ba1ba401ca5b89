package client

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/rester/client/decode"
)

// Response is a completed HTTP response with its body fully buffered, so
// it can be inspected any number of times after the call returns.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// Request is the request that was sent. It is nil for mocked responses.
	Request *http.Request
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// JSON decodes the body into dest.
func (r *Response) JSON(dest any) error {
	return decode.JSON(r.Body, dest, false)
}

// Text returns the body as a UTF-8 string, honouring a declared charset.
func (r *Response) Text() (string, error) {
	return decode.Text(r.Body, r.Header.Get("Content-Type"))
}

// Blob returns the body with its media type.
func (r *Response) Blob() decode.Blob {
	return decode.NewBlob(r.Body, r.Header.Get("Content-Type"))
}

// readResponse buffers and closes the body of resp.
func readResponse(resp *http.Response, logger *slog.Logger) (*Response, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}

	defer func() {
		if resp.Body == nil {
			return
		}
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	var body []byte
	if resp.Body != nil {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		body = b
	}

	header := resp.Header
	if header == nil {
		header = make(http.Header)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     header,
		Body:       body,
		Request:    resp.Request,
	}, nil
}
