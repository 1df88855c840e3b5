// internal/app/core/collaberr/collaberr_test.go

package collaberr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategoryPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"validation", NewValidation("bad tuple"), IsValidation},
		{"not found", NewNotFound("no collaboration %s", "abc"), IsNotFound},
		{"authorization", NewAuthorization("not a manager"), IsAuthorization},
		{"conflict", NewConflict("already a member"), IsConflict},
		{"storage", WrapStorage("find", errors.New("down")), IsStorage},
		{"search", WrapSearch("query", errors.New("timeout")), IsSearch},
	}

	predicates := map[string]func(error) bool{
		"validation":    IsValidation,
		"not found":     IsNotFound,
		"authorization": IsAuthorization,
		"conflict":      IsConflict,
		"storage":       IsStorage,
		"search":        IsSearch,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.want(tt.err) {
				t.Errorf("predicate for %s = false, want true", tt.name)
			}
			// Categories are mutually exclusive.
			for name, pred := range predicates {
				if name == tt.name {
					continue
				}
				if pred(tt.err) {
					t.Errorf("%s predicate matched a %s error", name, tt.name)
				}
			}
		})
	}
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NewConflict("already a member"))
	if !IsConflict(err) {
		t.Error("IsConflict did not match a wrapped ConflictError")
	}
	if IsConflict(errors.New("plain")) {
		t.Error("IsConflict matched a plain error")
	}
}

func TestWrapStorageNil(t *testing.T) {
	if err := WrapStorage("find", nil); err != nil {
		t.Errorf("WrapStorage(nil) = %v, want nil", err)
	}
	if err := WrapSearch("query", nil); err != nil {
		t.Errorf("WrapSearch(nil) = %v, want nil", err)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapStorage("add member", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped storage error does not unwrap to its cause")
	}
	want := "storage: add member: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSearchErrorUnwrap(t *testing.T) {
	cause := errors.New("index missing")
	err := WrapSearch("user search", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped search error does not unwrap to its cause")
	}
	want := "search: user search: index missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NewNotFound("no %s registered for %q", "model", "community")
	want := `no model registered for "community"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
