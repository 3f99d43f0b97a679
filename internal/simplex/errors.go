package simplex

import (
	"errors"
	"fmt"
)

// Kind classifies a simplex error.
type Kind int

const (
	// KindUnknown is the zero value and carries no classification.
	KindUnknown Kind = iota
	// KindInvalidPivot indicates a pivot position out of range or a pivot
	// element too close to zero to divide by.
	KindInvalidPivot
	// KindMalformedTableau indicates input that is not a rectangular matrix
	// with at least 2 rows and 2 columns.
	KindMalformedTableau
	// KindCycleSuspected indicates the iteration budget was exhausted
	// without reaching a terminal state.
	KindCycleSuspected
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidPivot:
		return "invalid pivot"
	case KindMalformedTableau:
		return "malformed tableau"
	case KindCycleSuspected:
		return "cycle suspected"
	default:
		return "unknown"
	}
}

// Error represents a simplex error with context
// that can be wrapped with additional information.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Kind != KindUnknown && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	} else if e.Op != "" {
		prefix = e.Op
	} else if e.Kind != KindUnknown {
		prefix = e.Kind.String()
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOp adds operation context to the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// NewError creates a new simplex error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// NewErrorf creates a new simplex error with a formatted message.
func NewErrorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a kind and additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsKind reports whether err is a simplex error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
