package topsis

import (
	"fmt"
	"strings"
)

// Impact is the preferred direction of a criterion.
type Impact string

const (
	Benefit Impact = "+" // higher raw value preferred
	Cost    Impact = "-" // lower raw value preferred
)

// Valid reports whether i is one of the two recognized direction tags.
func (i Impact) Valid() bool {
	return i == Benefit || i == Cost
}

func (i Impact) String() string {
	switch i {
	case Benefit:
		return "benefit"
	case Cost:
		return "cost"
	}
	return string(i)
}

// ParseImpact accepts "+", "-", "benefit" or "cost" (case-insensitive).
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "benefit":
		return Benefit, nil
	case "-", "cost":
		return Cost, nil
	}
	return "", fmt.Errorf("%w: %q must be '+' (benefit) or '-' (cost)", ErrInvalidImpact, s)
}

// ParseImpacts parses a list of direction tags, failing on the first invalid
// entry with an *Error carrying its column index.
func ParseImpacts(values []string) ([]Impact, error) {
	out := make([]Impact, len(values))
	for i, v := range values {
		imp, err := ParseImpact(v)
		if err != nil {
			return nil, columnError(ErrInvalidImpact, i, "", "impact %d: %q must be '+' (benefit) or '-' (cost)", i+1, v)
		}
		out[i] = imp
	}
	return out, nil
}

// Alternative is one row of the decision matrix. ID is carried through
// verbatim and never takes part in the computation.
type Alternative struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// DecisionMatrix is the numeric input to Compute. Criteria names are optional
// and only used in error messages and results.
type DecisionMatrix struct {
	Criteria     []string      `json:"criteria,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
}

// NumCriteria returns the number of criterion columns, taken from the names
// when present and from the first row otherwise.
func (m DecisionMatrix) NumCriteria() int {
	if len(m.Criteria) > 0 {
		return len(m.Criteria)
	}
	if len(m.Alternatives) > 0 {
		return len(m.Alternatives[0].Values)
	}
	return 0
}

func (m DecisionMatrix) columnName(j int) string {
	if j < len(m.Criteria) && m.Criteria[j] != "" {
		return m.Criteria[j]
	}
	return fmt.Sprintf("C%d", j+1)
}

// RankedAlternative is an input row augmented with its closeness score and rank.
type RankedAlternative struct {
	ID              string    `json:"id"`
	Index           int       `json:"index"`
	Values          []float64 `json:"values"`
	Score           float64   `json:"score"`
	Rank            int       `json:"rank"`
	SeparationBest  float64   `json:"separation_best"`
	SeparationWorst float64   `json:"separation_worst"`
}

// Result holds the ranked rows, best first, together with the ideal points
// they were measured against.
type Result struct {
	Criteria   []string            `json:"criteria,omitempty"`
	Impacts    []Impact            `json:"impacts"`
	Weights    []float64           `json:"weights"`
	IdealBest  []float64           `json:"ideal_best"`
	IdealWorst []float64           `json:"ideal_worst"`
	Rows       []RankedAlternative `json:"rows"`
}

// Best returns the first rank-1 row.
func (r *Result) Best() RankedAlternative {
	return r.Rows[0]
}

// Scores returns the scores indexed by original input position.
func (r *Result) Scores() []float64 {
	out := make([]float64, len(r.Rows))
	for _, row := range r.Rows {
		out[row.Index] = row.Score
	}
	return out
}
