// topsis ranks the alternatives in a CSV or Excel file from the command line.
//
// Usage:
//
//	topsis -weights 1,1,2 -impacts +,-,+ data.csv
//	topsis -weights 1,1 -impacts benefit,cost -o ranked.csv data.xlsx
//
// The ranked table is printed to stdout, styled when stdout is a terminal.
// With -o the full result is also written as CSV.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("topsis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	weightsFlag := fs.String("weights", "", "comma-separated positive weights, one per criterion")
	impactsFlag := fs.String("impacts", "", "comma-separated impacts (+ or -), one per criterion")
	outFlag := fs.String("o", "", "write the ranked result as CSV to this path")
	precisionFlag := fs.Int("precision", dataset.MinPrecision, "decimal places for scores")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *weightsFlag == "" || *impactsFlag == "" {
		fmt.Fprintln(stderr, "usage: topsis -weights w1,w2,... -impacts +,-,... [-o out.csv] <file>")
		return 2
	}

	weights, err := parseWeights(*weightsFlag)
	if err != nil {
		fmt.Fprintf(stderr, "topsis: %v\n", err)
		return 2
	}
	impacts, err := topsis.ParseImpacts(splitList(*impactsFlag))
	if err != nil {
		fmt.Fprintf(stderr, "topsis: %v\n", err)
		return 2
	}

	tbl, err := dataset.ParseFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "topsis: %v\n", err)
		return 1
	}
	res, err := topsis.Compute(tbl.Matrix(), weights, impacts)
	if err != nil {
		fmt.Fprintf(stderr, "topsis: %v\n", err)
		return 1
	}

	records, err := dataset.ResultRecords(tbl, res, *precisionFlag)
	if err != nil {
		fmt.Fprintf(stderr, "topsis: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, renderTable(dataset.ResultHeader(tbl), records, isTTYWriter(stdout)))

	if *outFlag != "" {
		if err := writeFile(*outFlag, tbl, res, *precisionFlag); err != nil {
			fmt.Fprintf(stderr, "topsis: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", *outFlag)
	}
	return 0
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseWeights(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %q is not a number", i+1, p)
		}
		out[i] = w
	}
	return out, nil
}

func writeFile(path string, tbl *dataset.Table, res *topsis.Result, precision int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return dataset.WriteCSV(f, tbl, res, precision)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderTable lays out the ranked records. Rank 1 rows are highlighted when
// styled output is enabled.
func renderTable(header []string, records [][]string, styled bool) string {
	t := table.New().Headers(header...).Rows(records...)
	if !styled {
		return t.Border(lipgloss.ASCIIBorder()).String()
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	bestStyle := cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	rankCol := len(header) - 1

	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(records) && records[row][rankCol] == "1" {
				return bestStyle
			}
			return cellStyle
		}).
		String()
}
