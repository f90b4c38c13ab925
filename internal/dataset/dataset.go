package dataset

import (
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformed         = errors.New("malformed file")
	ErrTooFewColumns     = errors.New("too few columns")
	ErrNoRows            = errors.New("no rows")
	ErrNonNumeric        = errors.New("non-numeric column")
	ErrMissingValue      = errors.New("missing value")
)

// Error is a validation failure at the ingestion boundary. Column and Row are
// -1 when not applicable; Row counts data rows from 0, excluding the header.
type Error struct {
	Kind   error
	Column string
	Row    int
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func (e *Error) Code() string {
	switch e.Kind {
	case ErrUnsupportedFormat:
		return "unsupported_format"
	case ErrMalformed:
		return "malformed_file"
	case ErrTooFewColumns:
		return "too_few_columns"
	case ErrNoRows:
		return "no_rows"
	case ErrNonNumeric:
		return "non_numeric"
	case ErrMissingValue:
		return "missing_value"
	}
	return "unknown"
}

// Criterion names a criteria column and its position in the original table.
type Criterion struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Table is a validated upload: the first column identifies alternatives and
// every remaining column is numeric. Cells keeps the raw text so exports
// reproduce the input verbatim.
type Table struct {
	Header []string    `json:"header"`
	Cells  [][]string  `json:"cells"`
	Values [][]float64 `json:"values"`
}

// IDColumn returns the name of the identifier column.
func (t *Table) IDColumn() string {
	return t.Header[0]
}

// Criteria lists the criteria columns in order.
func (t *Table) Criteria() []Criterion {
	out := make([]Criterion, 0, len(t.Header)-1)
	for i, h := range t.Header[1:] {
		out = append(out, Criterion{Name: h, Index: i + 1})
	}
	return out
}

// NumAlternatives returns the number of data rows.
func (t *Table) NumAlternatives() int {
	return len(t.Cells)
}

// Matrix converts the table into the engine's input.
func (t *Table) Matrix() topsis.DecisionMatrix {
	m := topsis.DecisionMatrix{
		Criteria:     append([]string(nil), t.Header[1:]...),
		Alternatives: make([]topsis.Alternative, len(t.Cells)),
	}
	for i, row := range t.Cells {
		m.Alternatives[i] = topsis.Alternative{ID: row[0], Values: t.Values[i]}
	}
	return m
}

func newError(kind error, column string, row int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Column: column, Row: row, Msg: fmt.Sprintf(format, args...)}
}
