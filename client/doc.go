// Package client builds and executes HTTP requests through an immutable,
// staged builder. Every outcome, including transport errors, is returned
// as a [result.Result] rather than a naked error.
//
// # Building a Factory
//
// Use [New] to create a [Factory] with functional options. A factory
// holds defaults shared by every request of the [Client] it creates:
//
//	f, err := client.New(
//		client.WithUserAgent("myapp/1.0"),
//		client.WithLogger(logger),
//	)
//	c := f.WithBearer(tokenSource).AcceptJSON().Create()
//
// Defaults can also be loaded from YAML with
// [github.com/adamwoolhether/rester/config] and [FromDefaults].
//
// # Making Requests
//
// A request starts at a verb and narrows as it is configured: parameters,
// then body, then headers, then Accept. Every call returns a new value,
// so a partially built request can be forked and reused:
//
//	base := c.Post("https://api.example.com/v1/items").WithParameter("dry", "1")
//	r := client.As[item](ctx, base.WithJSON(newItem).AcceptJSON())
//
// # Failures
//
// A failed request yields a [Failure] holding either the non-2xx
// [Response] or the transport error. [WithFailure] and
// [WithDefaultFailure] map it into a domain type:
//
//	r := client.As[item](ctx, client.WithFailure(c.Get(u).AcceptJSON(), toAPIError))
//	r.Match(use, report)
//
// For lower-level result handling see the
// [github.com/adamwoolhether/rester/client/result] package.
package client
