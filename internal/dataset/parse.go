package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// missingMarkers are cell values treated as absent, in addition to blanks.
var missingMarkers = map[string]bool{
	"na": true, "n/a": true, "nan": true, "null": true, "none": true, "#n/a": true,
}

// ParseFile opens path and parses it according to its extension.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Parse(filepath.Base(path), f)
}

// Parse reads a delimited-text or spreadsheet upload and validates it into a
// Table. The format is chosen from the filename extension.
func Parse(filename string, r io.Reader) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readSpreadsheet(r)
	case ".xls":
		return nil, newError(ErrUnsupportedFormat, "", -1,
			"legacy .xls workbooks are not supported, save the file as .xlsx or .csv")
	default:
		return nil, newError(ErrUnsupportedFormat, "", -1,
			"invalid file format, upload a CSV or Excel file (.csv, .xlsx)")
	}
	if err != nil {
		return nil, err
	}
	return build(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, newError(ErrMalformed, "", -1, "read csv: %v", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func readSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, newError(ErrMalformed, "", -1, "read spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newError(ErrMalformed, "", -1, "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, newError(ErrMalformed, "", -1, "read sheet %q: %v", sheets[0], err)
	}

	// GetRows drops trailing empty cells, so pad to the header width and skip
	// rows that are entirely empty.
	var records [][]string
	width := 0
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if width == 0 {
			width = len(row)
		}
		for len(row) < width {
			row = append(row, "")
		}
		records = append(records, row[:width])
	}
	return records, nil
}

func build(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, newError(ErrNoRows, "", -1, "dataset is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) < 3 {
		return nil, newError(ErrTooFewColumns, "", -1,
			"dataset must have at least 3 columns (1 ID column + at least 2 criteria columns)")
	}

	cells := records[1:]
	if len(cells) == 0 {
		return nil, newError(ErrNoRows, "", -1, "dataset has a header but no rows")
	}

	values := make([][]float64, len(cells))
	for i := range values {
		values[i] = make([]float64, len(header)-1)
	}

	// Every column is checked for non-numeric content before any missing value
	// is reported, so a text column is named even if it also has blanks.
	var missing *Error
	for c := 1; c < len(header); c++ {
		for i, row := range cells {
			raw := strings.TrimSpace(row[c])
			if isMissing(raw) {
				if missing == nil {
					missing = newError(ErrMissingValue, header[c], i,
						"missing values detected in criteria columns, column '%s' row %d is empty", header[c], i+1)
				}
				values[i][c-1] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, newError(ErrNonNumeric, header[c], i,
					"column '%s' must be numeric, all criteria columns must contain numeric values", header[c])
			}
			values[i][c-1] = f
		}
	}
	if missing != nil {
		return nil, missing
	}

	return &Table{Header: header, Cells: cells, Values: values}, nil
}

func isMissing(s string) bool {
	return s == "" || missingMarkers[strings.ToLower(s)]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
