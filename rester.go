// Package rester builds and executes HTTP requests through an immutable,
// staged builder whose every outcome arrives as a
// [github.com/adamwoolhether/rester/client/result.Result].
//
// Most programs start from [Default] or build their own factory with
// [New]; the full API lives in package client.
package rester

import (
	"github.com/adamwoolhether/rester/client"
)

// Default is a client with empty defaults, sending through a copy of
// net/http's default client.
var Default = mustDefault()

// New builds a client factory with the provided options. See [client.New].
func New(opts ...client.Option) (*client.Factory[client.Failure], error) {
	return client.New(opts...)
}

func mustDefault() *client.Client[client.Failure] {
	f, err := client.New()
	if err != nil {
		panic(err)
	}

	return f.Create()
}
