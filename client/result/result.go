package result

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrPanic is wrapped by the failure produced when [Try] recovers a panic.
var ErrPanic = errors.New("recovered panic")

// Unit is the success value of an operation that produces nothing.
type Unit struct{}

// Result holds either a success value of type T or a failure value of
// type F. The zero Result is a failure holding the zero F.
type Result[T, F any] struct {
	value   T
	failure F
	ok      bool
}

// Success wraps v as a successful Result.
func Success[T, F any](v T) Result[T, F] {
	return Result[T, F]{value: v, ok: true}
}

// Failure wraps f as a failed Result.
func Failure[T, F any](f F) Result[T, F] {
	return Result[T, F]{failure: f}
}

// Create evaluates pred and then exactly one of onSuccess or onFailure.
func Create[T, F any](ctx context.Context, pred func(context.Context) bool, onSuccess func(context.Context) T, onFailure func(context.Context) F) Result[T, F] {
	if pred(ctx) {
		return Success[T, F](onSuccess(ctx))
	}

	return Failure[T](onFailure(ctx))
}

// Try runs fn, returning its error as the failure side. A panic inside fn
// is recovered and reported as an error wrapping [ErrPanic].
func Try[T any](ctx context.Context, fn func(context.Context) (T, error)) (r Result[T, error]) {
	defer func() {
		if rec := recover(); rec != nil {
			r = Failure[T, error](fmt.Errorf("%w [%v] TRACE[%s]", ErrPanic, rec, debug.Stack()))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return Failure[T](err)
	}

	return Success[T, error](v)
}

// IsSuccess reports whether r holds a success value.
func (r Result[T, F]) IsSuccess() bool { return r.ok }

// IsFailure reports whether r holds a failure value.
func (r Result[T, F]) IsFailure() bool { return !r.ok }

// Value returns the success value and true, or the zero T and false.
func (r Result[T, F]) Value() (T, bool) {
	return r.value, r.ok
}

// Failure returns the failure value and true, or the zero F and false.
func (r Result[T, F]) Failure() (F, bool) {
	return r.failure, !r.ok
}

// Match calls exactly one of onSuccess or onFailure. Either may be nil.
func (r Result[T, F]) Match(onSuccess func(T), onFailure func(F)) {
	switch {
	case r.ok && onSuccess != nil:
		onSuccess(r.value)
	case !r.ok && onFailure != nil:
		onFailure(r.failure)
	}
}

// String implements fmt.Stringer.
func (r Result[T, F]) String() string {
	if r.ok {
		return fmt.Sprintf("success(%v)", r.value)
	}

	return fmt.Sprintf("failure(%v)", r.failure)
}

// Match folds r into a single value of type R.
func Match[T, F, R any](r Result[T, F], onSuccess func(T) R, onFailure func(F) R) R {
	if r.ok {
		return onSuccess(r.value)
	}

	return onFailure(r.failure)
}

// Map transforms the success side of r.
func Map[T, U, F any](r Result[T, F], fn func(T) U) Result[U, F] {
	if !r.ok {
		return Failure[U](r.failure)
	}

	return Success[U, F](fn(r.value))
}

// MapFailure transforms the failure side of r.
func MapFailure[T, F, G any](r Result[T, F], fn func(F) G) Result[T, G] {
	if r.ok {
		return Success[T, G](r.value)
	}

	return Failure[T](fn(r.failure))
}

// MapFailureAsync transforms the failure side of r with a callback that
// may block.
func MapFailureAsync[T, F, G any](ctx context.Context, r Result[T, F], fn func(context.Context, F) G) Result[T, G] {
	if r.ok {
		return Success[T, G](r.value)
	}

	return Failure[T](fn(ctx, r.failure))
}

// Bind chains a fallible transform onto the success side of r.
func Bind[T, U, F any](r Result[T, F], fn func(T) Result[U, F]) Result[U, F] {
	if !r.ok {
		return Failure[U](r.failure)
	}

	return fn(r.value)
}

// BindAsync chains a fallible transform that may block onto the success
// side of r.
func BindAsync[T, U, F any](ctx context.Context, r Result[T, F], fn func(context.Context, T) Result[U, F]) Result[U, F] {
	if !r.ok {
		return Failure[U](r.failure)
	}

	return fn(ctx, r.value)
}
