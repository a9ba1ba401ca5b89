package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"mime/multipart"
	"net/url"
	"slices"
)

// BodyKind identifies the representation of a request [Body].
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyJSON
	BodyMultipart
	BodyURLEncoded
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyRaw:
		return "raw"
	case BodyJSON:
		return "json"
	case BodyMultipart:
		return "multipart"
	case BodyURLEncoded:
		return "urlencoded"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Body is an encoded request payload. The zero Body is empty.
//
// Encoding happens when the body is set; an encoding error is kept and
// reported when the request executes.
type Body struct {
	kind        BodyKind
	data        []byte
	contentType string
	err         error
}

// Kind returns the body representation.
func (b Body) Kind() BodyKind { return b.kind }

// Bytes returns a copy of the encoded payload.
func (b Body) Bytes() []byte { return bytes.Clone(b.data) }

// String returns the encoded payload as a string.
func (b Body) String() string { return string(b.data) }

// ContentType returns the media type implied by the representation. Setting
// the body writes it to the Content-Type header.
func (b Body) ContentType() string { return b.contentType }

// Err returns the error encountered while encoding the body, if any.
func (b Body) Err() error { return b.err }

func rawBody(data []byte, contentType string) Body {
	return Body{kind: BodyRaw, data: bytes.Clone(data), contentType: contentType}
}

func jsonBody(v any) Body {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{kind: BodyJSON, err: fmt.Errorf("encoding json body: %w", err)}
	}

	return Body{kind: BodyJSON, data: data, contentType: "application/json"}
}

// multipartBody writes fields in key order; Go maps carry no insertion order.
func multipartBody(data map[string]string) Body {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range slices.Sorted(maps.Keys(data)) {
		if err := w.WriteField(key, data[key]); err != nil {
			return Body{kind: BodyMultipart, err: fmt.Errorf("writing form field %q: %w", key, err)}
		}
	}

	if err := w.Close(); err != nil {
		return Body{kind: BodyMultipart, err: fmt.Errorf("closing form: %w", err)}
	}

	return Body{kind: BodyMultipart, data: buf.Bytes(), contentType: w.FormDataContentType()}
}

func urlEncodedBody(data map[string]string) Body {
	values := make(url.Values, len(data))
	for k, v := range data {
		values.Set(k, v)
	}

	return Body{
		kind:        BodyURLEncoded,
		data:        []byte(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
}
