package validate_test

import (
	"errors"
	"testing"

	"github.com/adamwoolhether/rester/client/validate"
)

type todo struct {
	ID    int    `json:"id" validate:"gt=0"`
	Title string `json:"title" validate:"required"`
	Owner string `json:"owner" validate:"omitempty,email"`
}

func TestCheck_Valid(t *testing.T) {
	v := todo{ID: 1, Title: "delectus aut autem"}
	if err := validate.Check(&v); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_MissingRequired(t *testing.T) {
	err := validate.Check(todo{ID: 1})
	if err == nil {
		t.Fatal("expected error for missing required field")
	}

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}

	fields := fe.Fields()
	if fields["title"] != "This field is required" {
		t.Fatalf("title error = %q, want %q", fields["title"], "This field is required")
	}
}

func TestCheck_InvalidField(t *testing.T) {
	err := validate.Check(&todo{ID: 0, Title: "x", Owner: "not-an-email"})

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}

	fields := fe.Fields()
	for _, name := range []string{"id", "owner"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("expected %q field error, got %v", name, fields)
		}
	}
}

func TestCheck_NonStruct(t *testing.T) {
	s := "just a string"
	var nilPtr *todo

	for _, v := range []any{s, &s, 42, []int{1}, map[string]int{}, nilPtr} {
		if err := validate.Check(v); err != nil {
			t.Errorf("Check(%T): expected nil, got %v", v, err)
		}
	}
}

func TestCheck_Collections(t *testing.T) {
	valid := todo{ID: 1, Title: "ok"}
	invalid := todo{ID: 2}

	testCases := map[string]struct {
		val    any
		expErr bool
	}{
		"sliceValid":     {val: []todo{valid, valid}},
		"sliceInvalid":   {val: []todo{valid, invalid}, expErr: true},
		"slicePtrs":      {val: []*todo{&valid, &invalid}, expErr: true},
		"arrayInvalid":   {val: [1]todo{invalid}, expErr: true},
		"mapInvalid":     {val: map[string]todo{"a": invalid}, expErr: true},
		"pointerToSlice": {val: &[]todo{invalid}, expErr: true},
		"nilSlice":       {val: []todo(nil)},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := validate.Check(tc.val)
			if !tc.expErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
			if fe.Fields()["title"] != "This field is required" {
				t.Errorf("expected title error, got %v", fe.Fields())
			}
		})
	}
}
