package models

import (
	"errors"
	"testing"
)

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Reason: "empty bidder list"}
	if err.Error() != "validation error: empty bidder list" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestProviderError_UnwrapsUnderlying(t *testing.T) {
	inner := errors.New("backend unavailable")
	err := &ProviderError{Provider: "ExtractText", Err: inner}

	if !errors.Is(err, inner) {
		t.Fatal("expected errors.Is to unwrap to the inner error")
	}
	if err.Error() != "provider ExtractText: backend unavailable" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
