package multierror

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Error is a generic error type that allows to combine multiple errors into one.
// Errors are keyed, so that the caller can tell which item has failed.
type Error[T comparable] struct {
	mu     sync.Mutex
	errors map[T]error
}

// New creates a new Error.
func New[T comparable]() *Error[T] {
	return &Error[T]{
		errors: make(map[T]error),
	}
}

// Error returns a string representation of the error. Entries are sorted so
// that the message is stable.
func (m *Error[T]) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := make([]string, 0, len(m.errors))
	for k, v := range m.errors {
		parts = append(parts, fmt.Sprintf("%v:%s", k, v))
	}

	sort.Strings(parts)

	return strings.Join(parts, "; ")
}

// Unwrap returns a slice of errors.
func (m *Error[T]) Unwrap() []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errs := make([]error, 0, len(m.errors))
	for _, v := range m.errors {
		errs = append(errs, v)
	}

	return errs
}

// Len returns the number of errors.
func (m *Error[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.errors)
}

// Add adds an error to the Error.
func (m *Error[T]) Add(key T, err error) {
	m.mu.Lock()
	m.errors[key] = err
	m.mu.Unlock()
}

// Get returns an error by key.
func (m *Error[T]) Get(key T) (error, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v := m.errors[key]; v != nil {
		return v, true
	}

	return nil, false
}

// Combined returns the Error if it contains any errors, nil otherwise.
func (m *Error[T]) Combined() error {
	if m.Len() == 0 {
		return nil
	}

	return m
}
