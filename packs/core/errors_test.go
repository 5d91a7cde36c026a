// ABOUTME: Tests for the typed error values.
// ABOUTME: Validates messages, wrapping, and errors.As matching.

package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTransportErrorMessage(t *testing.T) {
	err := &TransportError{URL: "https://api.test/packs", Err: errors.New("connection refused")}

	if !strings.Contains(err.Error(), "https://api.test/packs") {
		t.Errorf("error message missing URL: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error message missing cause: %q", err.Error())
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("sync failed: %w", &TransportError{URL: "https://api.test", Err: cause})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatal("errors.As failed to find TransportError")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to find wrapped cause")
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "pack", ID: "p123"}

	if err.Error() != `pack "p123" not found` {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false for NotFoundError")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", err)) {
		t.Error("IsNotFound() = false for wrapped NotFoundError")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound() = true for unrelated error")
	}
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Message: `unknown metadata key "foo"`}
	if err.Error() != `unknown metadata key "foo"` {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUserVisibleError(t *testing.T) {
	plain := &UserVisibleError{Message: "pack not editable"}
	if plain.Error() != "pack not editable" {
		t.Errorf("unexpected message: %q", plain.Error())
	}

	cause := errors.New("status 403")
	wrapped := &UserVisibleError{Message: "could not add category", Err: cause}
	if !strings.Contains(wrapped.Error(), "status 403") {
		t.Errorf("message missing cause: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap did not expose cause")
	}
}
