package result_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/adamwoolhether/rester/client/result"
)

func TestCreate_EvaluatesOneSide(t *testing.T) {
	testCases := []struct {
		name     string
		pred     bool
		expOK    bool
		expCalls string
	}{
		{name: "predicate true", pred: true, expOK: true, expCalls: "s"},
		{name: "predicate false", pred: false, expOK: false, expCalls: "f"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls strings.Builder

			r := result.Create(t.Context(),
				func(context.Context) bool { return tc.pred },
				func(context.Context) int { calls.WriteString("s"); return 1 },
				func(context.Context) string { calls.WriteString("f"); return "bad" },
			)

			if r.IsSuccess() != tc.expOK {
				t.Errorf("exp success %t, got %t", tc.expOK, r.IsSuccess())
			}
			if calls.String() != tc.expCalls {
				t.Errorf("exp calls %q, got %q", tc.expCalls, calls.String())
			}
		})
	}
}

func TestTry(t *testing.T) {
	errBoom := errors.New("boom")

	ok := result.Try(t.Context(), func(context.Context) (int, error) { return 7, nil })
	if v, isOK := ok.Value(); !isOK || v != 7 {
		t.Errorf("exp success 7, got %v", ok)
	}

	bad := result.Try(t.Context(), func(context.Context) (int, error) { return 0, errBoom })
	if err, isFail := bad.Failure(); !isFail || !errors.Is(err, errBoom) {
		t.Errorf("exp failure %v, got %v", errBoom, bad)
	}
}

func TestTry_RecoversPanic(t *testing.T) {
	r := result.Try(t.Context(), func(context.Context) (int, error) {
		panic("something broke")
	})

	err, ok := r.Failure()
	if !ok {
		t.Fatal("expected failure from recovered panic")
	}
	if !errors.Is(err, result.ErrPanic) {
		t.Errorf("exp ErrPanic, got: %v", err)
	}
	if !strings.Contains(err.Error(), "something broke") {
		t.Errorf("error should contain panic value, got: %s", err)
	}
}

func TestCombinators_SkipOtherSide(t *testing.T) {
	fail := result.Failure[int, string]("nope")

	mapped := result.Map(fail, func(int) int {
		t.Fatal("Map must not run on failure")
		return 0
	})
	bound := result.Bind(mapped, func(int) result.Result[string, string] {
		t.Fatal("Bind must not run on failure")
		return result.Success[string, string]("")
	})
	boundAsync := result.BindAsync(t.Context(), bound, func(context.Context, string) result.Result[int, string] {
		t.Fatal("BindAsync must not run on failure")
		return result.Success[int, string](0)
	})

	got := result.Match(boundAsync,
		func(int) string { return "success" },
		func(f string) string { return f },
	)
	if got != "nope" {
		t.Errorf("exp failure to pass through unchanged, got %q", got)
	}

	ok := result.Success[int, string](3)
	same := result.MapFailure(ok, func(string) error {
		t.Fatal("MapFailure must not run on success")
		return nil
	})
	if v, _ := same.Value(); v != 3 {
		t.Errorf("exp 3, got %d", v)
	}
}

func TestChain(t *testing.T) {
	parse := func(s string) result.Result[int, error] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return result.Failure[int](err)
		}
		return result.Success[int, error](n)
	}

	r := result.Bind(result.Success[string, error]("21"), parse)
	r = result.Map(r, func(n int) int { return n * 2 })

	code := result.MapFailureAsync(t.Context(), result.Bind(result.Success[string, error]("x"), parse),
		func(_ context.Context, err error) int { return len(err.Error()) },
	)

	if v, ok := r.Value(); !ok || v != 42 {
		t.Errorf("exp 42, got %v", r)
	}
	if code.IsSuccess() {
		t.Errorf("exp failure, got %v", code)
	}
}

func TestResult_MatchMethod(t *testing.T) {
	var got string
	result.Failure[int, string]("bad").Match(
		func(int) { got = "success" },
		func(f string) { got = f },
	)
	if got != "bad" {
		t.Errorf("exp %q, got %q", "bad", got)
	}

	// Nil handlers are skipped.
	result.Success[int, string](1).Match(nil, nil)
}

func TestResult_ZeroValueIsFailure(t *testing.T) {
	var r result.Result[int, string]
	if !r.IsFailure() {
		t.Error("exp zero Result to be a failure")
	}
}
