package rester_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/adamwoolhether/rester"
	"github.com/adamwoolhether/rester/client"
)

func ExampleNew() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"msg":"hello %s"}`, r.Header.Get("X-Tenant"))
	}))
	defer ts.Close()

	f, err := rester.New(client.WithUserAgent("example/1.0"))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	c := f.WithHeader("X-Tenant", "acme").Create()

	type greeting struct {
		Msg string `json:"msg"`
	}

	r := client.As[greeting](context.Background(), c.Get(ts.URL).AcceptJSON())
	r.Match(
		func(g greeting) { fmt.Println(g.Msg) },
		func(f client.Failure) { fmt.Println("failed:", f) },
	)
	// Output: hello acme
}

func ExampleDefault() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "no such thing")
	}))
	defer ts.Close()

	r := rester.Default.Get(ts.URL).AsText(context.Background())

	f, _ := r.Failure()
	fmt.Println(f.StatusCode(), string(f.Response.Body))
	// Output: 404 no such thing
}
