package topsis

// ParetoFront returns the input indices of the alternatives no other
// alternative dominates. An alternative dominates another when it is at least
// as good on every criterion, judged by that criterion's impact, and strictly
// better on at least one. Rows whose length differs from impacts are skipped.
// O(n^2) dominance check.
func ParetoFront(m DecisionMatrix, impacts []Impact) []int {
	var front []int
	for i, a := range m.Alternatives {
		if len(a.Values) != len(impacts) {
			continue
		}
		dominated := false
		for j, b := range m.Alternatives {
			if i == j || len(b.Values) != len(impacts) {
				continue
			}
			if dominates(b.Values, a.Values, impacts) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, i)
		}
	}
	return front
}

// dominates reports whether a dominates b.
func dominates(a, b []float64, impacts []Impact) bool {
	strict := false
	for j, imp := range impacts {
		x, y := a[j], b[j]
		if imp == Cost {
			x, y = -x, -y
		}
		if x < y {
			return false
		}
		if x > y {
			strict = true
		}
	}
	return strict
}
