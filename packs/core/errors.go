// ABOUTME: Typed error values shared by the sync engine and packs.
// ABOUTME: Distinguishes transport, not-found, configuration, and user-visible failures.

package core

import (
	"errors"
	"fmt"
)

// TransportError wraps a failed network call. The engine never retries these;
// they propagate to the caller as-is.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup that matched zero items.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConfigurationError reports an unknown metadata key or dynamic property.
// It is raised synchronously, before any network work.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// UserVisibleError carries a message meant to be shown to the end user.
type UserVisibleError struct {
	Message string
	Err     error
}

func (e *UserVisibleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserVisibleError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
