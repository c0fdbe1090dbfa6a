package domain

import (
	"errors"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	err := Errorf(ErrNotFound, "story %s not found", "s1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found kind got %v", err)
	}
	if got := ErrorMessage(err); got != "story s1 not found" {
		t.Fatalf("expected caller message got %q", got)
	}

	cause := errors.New("connection reset")
	err = StorageError("failed to save message", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected storage kind wrapping cause got %v", err)
	}
	if got := ErrorMessage(err); got != "failed to save message" {
		t.Fatalf("expected cause hidden from caller got %q", got)
	}
	if got := ErrorMessage(cause); got != "connection reset" {
		t.Fatalf("expected plain error text got %q", got)
	}
}
