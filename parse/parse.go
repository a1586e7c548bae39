// Package parse holds the error returned for malformed identities and unknown
// enumeration names, and the strict name-table lookup shared by the enum types.
package parse

import (
	"errors"
	"fmt"
)

// ErrUnknownName is wrapped by Error when a name is not found in a lookup table.
var ErrUnknownName = errors.New("unknown name")

// Error describes an input that could not be parsed. Kind names what was being
// parsed (e.g. "fid", "process event") and Input is the offending text.
type Error struct {
	Kind  string
	Input string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
	}

	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Lookup returns the value bound to name in the table. There is no fallback:
// a missing name is an *Error wrapping ErrUnknownName.
func Lookup[T any](kind string, table map[string]T, name string) (T, error) {
	if v, ok := table[name]; ok {
		return v, nil
	}

	var zero T

	return zero, &Error{
		Kind:  kind,
		Input: name,
		Err:   ErrUnknownName,
	}
}

// IsParseError reports whether any error in err's chain is an *Error.
func IsParseError(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}
