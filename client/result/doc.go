// Package result provides a two-sided success/failure value used in place
// of (value, error) pairs when the failure side carries a caller-chosen type.
//
// # Constructing
//
//	ok := result.Success[int, string](42)
//	bad := result.Failure[int, string]("boom")
//
// [Create] decides the side from a predicate and lazily evaluates only the
// producer for that side. [Try] captures a Go error as the failure side:
//
//	r := result.Try(ctx, func(ctx context.Context) (*http.Response, error) {
//		return http.DefaultClient.Do(req)
//	})
//
// # Chaining
//
// Go methods cannot introduce type parameters, so the combinators that
// change a side's type are package functions:
//
//	n := result.Bind(r, parse)
//	msg := result.Match(n,
//		func(v int) string { return strconv.Itoa(v) },
//		func(err error) string { return err.Error() },
//	)
//
// The Async variants accept a [context.Context] and a callback that may
// block; they run synchronously on the calling goroutine.
package result
