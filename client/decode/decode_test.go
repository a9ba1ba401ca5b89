package decode_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/adamwoolhether/rester/client/decode"
	"github.com/antchfx/htmlquery"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestJSON(t *testing.T) {
	type todo struct {
		UserID    int    `json:"userId"`
		ID        int    `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	body := []byte(`{"userId":1,"id":1,"title":"delectus aut autem","completed":true}`)

	var got todo
	if err := decode.JSON(body, &got, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := todo{UserID: 1, ID: 1, Title: "delectus aut autem", Completed: true}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("decoded mismatch (-exp +got):\n%s", diff)
	}
}

func TestJSON_UseNumber(t *testing.T) {
	var got map[string]any
	if err := decode.JSON([]byte(`{"big":12345678901234567890}`), &got, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := got["big"].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", got["big"])
	}
}

func TestJSON_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "malformed", body: `{"id":`},
		{name: "trailing data", body: `{"id":1} {"id":2}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var v map[string]any
			if err := decode.JSON([]byte(tc.body), &v, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJSON_TrailingData(t *testing.T) {
	var v map[string]any
	err := decode.JSON([]byte(`{"id":1} {"id":2}`), &v, false)
	if !errors.Is(err, decode.ErrTrailingData) {
		t.Errorf("expected ErrTrailingData, got %v", err)
	}
}

func TestText(t *testing.T) {
	testCases := []struct {
		name        string
		body        []byte
		contentType string
		exp         string
	}{
		{
			name:        "no charset",
			body:        []byte("Hello World"),
			contentType: "text/plain",
			exp:         "Hello World",
		},
		{
			name:        "utf-8 charset",
			body:        []byte("héllo"),
			contentType: "text/plain; charset=utf-8",
			exp:         "héllo",
		},
		{
			name:        "latin-1 charset",
			body:        []byte{'c', 'a', 'f', 0xe9},
			contentType: "text/plain; charset=ISO-8859-1",
			exp:         "café",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decode.Text(tc.body, tc.contentType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestNewBlob(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	testCases := []struct {
		name        string
		body        []byte
		contentType string
		expType     string
	}{
		{name: "declared", body: []byte("abc"), contentType: "application/octet-stream", expType: "application/octet-stream"},
		{name: "declared with params", body: []byte("abc"), contentType: "text/plain; charset=utf-8", expType: "text/plain"},
		{name: "sniffed", body: png, contentType: "", expType: "image/png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := decode.NewBlob(tc.body, tc.contentType)
			if b.Type != tc.expType {
				t.Errorf("exp type %q, got %q", tc.expType, b.Type)
			}
			if b.Size() != len(tc.body) {
				t.Errorf("exp size %d, got %d", len(tc.body), b.Size())
			}
		})
	}
}

func TestDocument(t *testing.T) {
	doc, err := decode.Document([]byte("<div>Hello World</div>"), "text/html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	div := htmlquery.FindOne(doc, "//div")
	if div == nil {
		t.Fatal("expected a div node")
	}
	if got := htmlquery.InnerText(div); got != "Hello World" {
		t.Errorf("exp %q, got %q", "Hello World", got)
	}
}

func TestProto(t *testing.T) {
	var msg structpb.Struct
	if err := decode.Proto([]byte(`{"id":1,"title":"x"}`), &msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := msg.GetFields()["title"].GetStringValue(); got != "x" {
		t.Errorf("exp title %q, got %q", "x", got)
	}

	if err := decode.Proto([]byte(`not json`), &msg); err == nil {
		t.Error("expected error for invalid body")
	}
}
