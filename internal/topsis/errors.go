package topsis

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Compute wraps exactly one of these.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidImpact     = errors.New("invalid impact")
	ErrInvalidData       = errors.New("invalid data")
	ErrInvalidWeight     = errors.New("invalid weight")
	ErrDegenerateColumn  = errors.New("degenerate column")
	ErrZeroSeparation    = errors.New("zero separation")
)

// Error describes why a computation was rejected. Column and Row are -1 when
// the failure is not tied to a specific column or row.
type Error struct {
	Kind   error
	Column int
	Name   string
	Row    int
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Code returns a stable snake_case identifier for the failure kind.
func (e *Error) Code() string {
	return KindCode(e.Kind)
}

// CallerError reports whether the failure was caused by malformed caller input
// rather than by the shape of the dataset itself.
func (e *Error) CallerError() bool {
	switch e.Kind {
	case ErrDegenerateColumn, ErrZeroSeparation:
		return false
	}
	return true
}

// KindCode maps a failure kind to its stable identifier.
func KindCode(kind error) string {
	switch kind {
	case ErrDimensionMismatch:
		return "dimension_mismatch"
	case ErrInvalidImpact:
		return "invalid_impact"
	case ErrInvalidData:
		return "invalid_data"
	case ErrInvalidWeight:
		return "invalid_weight"
	case ErrDegenerateColumn:
		return "degenerate_column"
	case ErrZeroSeparation:
		return "zero_separation"
	}
	return "unknown"
}

func dimensionError(what string, got, want int) *Error {
	return &Error{
		Kind:   ErrDimensionMismatch,
		Column: -1,
		Row:    -1,
		Msg:    fmt.Sprintf("number of %s (%d) must match number of criteria columns (%d)", what, got, want),
	}
}

func columnError(kind error, col int, name, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Column: col, Name: name, Row: -1, Msg: fmt.Sprintf(format, args...)}
}

func rowError(kind error, row int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Column: -1, Row: row, Msg: fmt.Sprintf(format, args...)}
}
