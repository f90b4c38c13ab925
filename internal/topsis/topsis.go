// Package topsis ranks alternatives against weighted benefit and cost criteria
// by their relative closeness to an ideal-best point and distance from an
// ideal-worst point.
package topsis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Compute scores and ranks every alternative in m. It either returns a
// complete result or an *Error; there is no partial output.
//
// Steps, for N alternatives and M criteria:
//
//	r_ij = x_ij / sqrt(Σ_i x_ij²)
//	v_ij = r_ij * w_j
//	A+_j = max_i v_ij (benefit) | min_i v_ij (cost), A-_j the opposite
//	S+_i = ‖v_i − A+‖₂,  S−_i = ‖v_i − A−‖₂
//	C_i  = S−_i / (S+_i + S−_i)
//
// Ranks use competition ranking: equal scores share the lowest rank of their
// group and the next distinct score skips ahead by the group size.
func Compute(m DecisionMatrix, weights []float64, impacts []Impact) (*Result, error) {
	if err := validate(m, weights, impacts); err != nil {
		return nil, err
	}

	n, k := len(m.Alternatives), m.NumCriteria()
	x := mat.NewDense(n, k, nil)
	for i, a := range m.Alternatives {
		x.SetRow(i, a.Values)
	}

	r, err := normalize(x, m)
	if err != nil {
		return nil, err
	}

	v := mat.NewDense(n, k, nil)
	best := make([]float64, k)
	worst := make([]float64, k)
	col := make([]float64, n)
	for j := 0; j < k; j++ {
		mat.Col(col, j, r)
		floats.Scale(weights[j], col)
		hi, lo := floats.Max(col), floats.Min(col)
		if impacts[j] == Benefit {
			best[j], worst[j] = hi, lo
		} else {
			best[j], worst[j] = lo, hi
		}
		v.SetCol(j, col)
	}

	rows := make([]RankedAlternative, n)
	for i, a := range m.Alternatives {
		vi := v.RawRowView(i)
		sp := floats.Distance(vi, best, 2)
		sm := floats.Distance(vi, worst, 2)
		if sp+sm == 0 {
			return nil, rowError(ErrZeroSeparation, i,
				"alternative %d (%s) coincides with both ideal points, score is undefined", i+1, a.ID)
		}
		score := sm / (sp + sm)
		if !finite(score) {
			return nil, rowError(ErrInvalidData, i,
				"alternative %d (%s) produced a non-finite score", i+1, a.ID)
		}
		values := make([]float64, k)
		copy(values, a.Values)
		rows[i] = RankedAlternative{
			ID:              a.ID,
			Index:           i,
			Values:          values,
			Score:           score,
			SeparationBest:  sp,
			SeparationWorst: sm,
		}
	}

	rankRows(rows)

	res := &Result{
		Impacts:    append([]Impact(nil), impacts...),
		Weights:    append([]float64(nil), weights...),
		IdealBest:  best,
		IdealWorst: worst,
		Rows:       rows,
	}
	if len(m.Criteria) > 0 {
		res.Criteria = append([]string(nil), m.Criteria...)
	}
	return res, nil
}

// normalize divides every column of x by its Euclidean norm, so each column
// of the result has unit length.
func normalize(x *mat.Dense, m DecisionMatrix) (*mat.Dense, error) {
	n, k := x.Dims()
	r := mat.NewDense(n, k, nil)
	col := make([]float64, n)
	for j := 0; j < k; j++ {
		mat.Col(col, j, x)
		norm := floats.Norm(col, 2)
		if norm == 0 {
			return nil, columnError(ErrDegenerateColumn, j, m.columnName(j),
				"column '%s' has all zeros, cannot normalize", m.columnName(j))
		}
		if !finite(norm) {
			return nil, columnError(ErrInvalidData, j, m.columnName(j),
				"column '%s' overflows during normalization", m.columnName(j))
		}
		for i := range col {
			col[i] /= norm
		}
		r.SetCol(j, col)
	}
	return r, nil
}

// rankRows assigns competition ranks and reorders rows best first, keeping
// input order among ties.
func rankRows(rows []RankedAlternative) {
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Score > rows[b].Score
	})
	for p := range rows {
		if p > 0 && rows[p].Score == rows[p-1].Score {
			rows[p].Rank = rows[p-1].Rank
			continue
		}
		rows[p].Rank = p + 1
	}
}

func validate(m DecisionMatrix, weights []float64, impacts []Impact) error {
	k := m.NumCriteria()
	if len(m.Alternatives) == 0 {
		return rowError(ErrInvalidData, -1, "decision matrix has no alternatives")
	}
	if k == 0 {
		return rowError(ErrInvalidData, -1, "decision matrix has no criteria columns")
	}
	if len(weights) != k {
		return dimensionError("weights", len(weights), k)
	}
	if len(impacts) != k {
		return dimensionError("impacts", len(impacts), k)
	}
	for j, imp := range impacts {
		if !imp.Valid() {
			return columnError(ErrInvalidImpact, j, m.columnName(j),
				"invalid impact value '%s' for column '%s', must be '+' or '-'", string(imp), m.columnName(j))
		}
	}
	for i, a := range m.Alternatives {
		if len(a.Values) != k {
			return rowError(ErrInvalidData, i,
				"alternative %d (%s) has %d values, expected %d", i+1, a.ID, len(a.Values), k)
		}
		for j, val := range a.Values {
			if !finite(val) {
				e := columnError(ErrInvalidData, j, m.columnName(j),
					"alternative %d (%s) has a non-finite value in column '%s'", i+1, a.ID, m.columnName(j))
				e.Row = i
				return e
			}
		}
	}
	for j, w := range weights {
		if !finite(w) || w <= 0 {
			return columnError(ErrInvalidWeight, j, m.columnName(j),
				"weight for '%s' must be a positive number", m.columnName(j))
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
