// Package decode turns buffered response bodies into the shapes the
// client's execution methods return.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ErrTrailingData is returned by JSON when the body holds more than one
// JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// Blob is a binary response body together with its media type.
type Blob struct {
	Data []byte
	Type string
}

// Size returns the length of the blob in bytes.
func (b Blob) Size() int {
	return len(b.Data)
}

// JSON decodes body into dest, which must be a pointer. useNumber keeps
// numbers as [json.Number] instead of float64 when decoding into any.
func JSON(body []byte, dest any, useNumber bool) error {
	d := json.NewDecoder(bytes.NewReader(body))
	if useNumber {
		d.UseNumber()
	}

	if err := d.Decode(dest); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}

	return nil
}

// Text returns body as a UTF-8 string, converting from the charset named
// in contentType when one is declared.
func Text(body []byte, contentType string) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), "charset=") {
		return string(body), nil
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("charset reader: %w", err)
	}

	converted, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("converting charset: %w", err)
	}

	return string(converted), nil
}

// NewBlob wraps body, using the media type from contentType when present
// and sniffing the content otherwise.
func NewBlob(body []byte, contentType string) Blob {
	typ := ""
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		typ = mediaType
	}
	if typ == "" {
		typ = mimetype.Detect(body).String()
	}

	return Blob{Data: body, Type: typ}
}

// Document parses body as an HTML document, honouring the charset declared
// in contentType.
func Document(body []byte, contentType string) (*html.Node, error) {
	text, err := Text(body, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return doc, nil
}

// Proto decodes a protobuf JSON body into msg.
func Proto(body []byte, msg proto.Message) error {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(body, msg); err != nil {
		return fmt.Errorf("decoding protojson: %w", err)
	}

	return nil
}
