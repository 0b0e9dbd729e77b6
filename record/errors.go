package record

import (
	"fmt"
	"strings"
)

// FormatError reports a malformed or missing scalar token.
type FormatError struct {
	Field string
	Token string // empty when the token is missing
	Line  int
	Err   error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Token == "" {
		fmt.Fprintf(&b, "missing value for %s", e.Field)
	} else {
		fmt.Fprintf(&b, "invalid %s %q", e.Field, e.Token)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

// ShapeError reports array dimensions that disagree with the declared counts.
type ShapeError struct {
	Name   string
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Detail)
}

// ShapeMismatch builds a ShapeError comparing two shapes.
func ShapeMismatch(name string, want, got []int) *ShapeError {
	return &ShapeError{
		Name:   name,
		Detail: fmt.Sprintf("shape %v does not match declared %v", got, want),
	}
}

// UnsupportedError reports a combination of settings the format does not allow.
type UnsupportedError struct {
	Package string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported configuration: %s", e.Package, e.Reason)
}

// IOError wraps a failure of the underlying stream or file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// LoadError tags a failure with the plan step that produced it.
type LoadError struct {
	Label string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s (index %d): %v", e.Label, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
