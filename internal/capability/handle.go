// Package capability loads optional backend workers without ever failing the caller.
//
// A capability that cannot be constructed (missing binary, unreachable service,
// bad credentials) is represented as an absent Handle. Callers check presence and
// carry on; the screen or server stays usable with zero capabilities available.
package capability

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps every load failure.
var ErrUnavailable = errors.New("capability unavailable")

// Handle is a reference to a capability that may be absent.
// The zero value is an absent handle with no name.
type Handle[T any] struct {
	name    string
	value   T
	present bool
	err     error
}

// Present wraps a constructed capability.
func Present[T any](name string, v T) Handle[T] {
	return Handle[T]{name: name, value: v, present: true}
}

// Absent builds an empty handle remembering why the capability is missing.
// cause is the underlying error; Err adds the ErrUnavailable wrapping.
func Absent[T any](name string, cause error) Handle[T] {
	return Handle[T]{name: name, err: cause}
}

// Get returns the capability and whether it is present.
func (h Handle[T]) Get() (T, bool) {
	return h.value, h.present
}

func (h Handle[T]) IsPresent() bool { return h.present }

func (h Handle[T]) Name() string { return h.name }

// Err is the load failure for an absent handle, nil otherwise. It always
// wraps ErrUnavailable.
func (h Handle[T]) Err() error {
	if h.present {
		return nil
	}
	if h.err == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, h.name, h.err)
}

// Cause is the constructor's own error, without the ErrUnavailable wrapping.
func (h Handle[T]) Cause() error {
	if h.present {
		return nil
	}
	if h.err == nil {
		return ErrUnavailable
	}
	return h.err
}
