package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const (
	ScoreColumn = "TOPSIS Score"
	RankColumn  = "Rank"

	// MinPrecision is the fewest decimals a score is ever written with.
	MinPrecision = 6
)

// FormatScore renders a score with at least MinPrecision decimals.
func FormatScore(score float64, precision int) string {
	if precision < MinPrecision {
		precision = MinPrecision
	}
	return strconv.FormatFloat(score, 'f', precision, 64)
}

// ResultHeader is the export header: the original columns plus score and rank.
func ResultHeader(t *Table) []string {
	return append(append([]string(nil), t.Header...), ScoreColumn, RankColumn)
}

// ResultRecords returns the export rows in rank order, each the original cells
// followed by the formatted score and rank.
func ResultRecords(t *Table, res *topsis.Result, precision int) ([][]string, error) {
	if len(res.Rows) != len(t.Cells) {
		return nil, fmt.Errorf("result has %d rows, table has %d", len(res.Rows), len(t.Cells))
	}
	out := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if row.Index < 0 || row.Index >= len(t.Cells) {
			return nil, fmt.Errorf("result row index %d out of range", row.Index)
		}
		rec := append([]string(nil), t.Cells[row.Index]...)
		rec = append(rec, FormatScore(row.Score, precision), strconv.Itoa(row.Rank))
		out = append(out, rec)
	}
	return out, nil
}

// WriteCSV writes the ranked table as delimited text.
func WriteCSV(w io.Writer, t *Table, res *topsis.Result, precision int) error {
	records, err := ResultRecords(t, res, precision)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultHeader(t)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
