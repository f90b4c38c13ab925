package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const phonesCSV = ` Model , Price, Storage ,Camera
P1,250,16,12
P2,200,16,8
P3,300,32,16
`

func requireKind(t *testing.T, err error, kind error) *Error {
	t.Helper()
	require.Error(t, err)
	var de *Error
	require.True(t, errors.As(err, &de), "expected *dataset.Error, got %T", err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	return de
}

func TestParseCSV(t *testing.T) {
	tbl, err := Parse("phones.CSV", strings.NewReader(phonesCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Model", "Price", "Storage", "Camera"}, tbl.Header)
	assert.Equal(t, "Model", tbl.IDColumn())
	assert.Equal(t, 3, tbl.NumAlternatives())
	assert.Equal(t, []Criterion{{"Price", 1}, {"Storage", 2}, {"Camera", 3}}, tbl.Criteria())

	m := tbl.Matrix()
	assert.Equal(t, []string{"Price", "Storage", "Camera"}, m.Criteria)
	require.Len(t, m.Alternatives, 3)
	assert.Equal(t, "P3", m.Alternatives[2].ID)
	assert.Equal(t, []float64{300, 32, 16}, m.Alternatives[2].Values)
}

func TestParseCSVStripsBOM(t *testing.T) {
	tbl, err := Parse("d.csv", strings.NewReader("\ufeffId,A,B\nx,1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "Id", tbl.IDColumn())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		body   string
		kind   error
		column string
	}{
		{"unsupported extension", "data.json", "{}", ErrUnsupportedFormat, ""},
		{"too few columns", "d.csv", "Id,A\nx,1\n", ErrTooFewColumns, ""},
		{"empty file", "d.csv", "", ErrNoRows, ""},
		{"header only", "d.csv", "Id,A,B\n", ErrNoRows, ""},
		{"ragged rows", "d.csv", "Id,A,B\nx,1\n", ErrMalformed, ""},
		{"text column", "d.csv", "Id,A,B\nx,1,high\ny,2,low\n", ErrNonNumeric, "B"},
		{"missing value", "d.csv", "Id,A,B\nx,1,\ny,2,3\n", ErrMissingValue, "B"},
		{"na marker", "d.csv", "Id,A,B\nx,NA,1\ny,2,3\n", ErrMissingValue, "A"},
		{"infinite value", "d.csv", "Id,A,B\nx,inf,1\ny,2,3\n", ErrNonNumeric, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(tt.file, strings.NewReader(tt.body))
			assert.Nil(t, tbl)
			de := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.column, de.Column)
			assert.NotEqual(t, "unknown", de.Code())
		})
	}
}

func TestParseNonNumericReportedBeforeMissing(t *testing.T) {
	_, err := Parse("d.csv", strings.NewReader("Id,A,B\nx,,1\ny,2,abc\n"))
	de := requireKind(t, err, ErrNonNumeric)
	assert.Equal(t, "B", de.Column)
}

func TestParseSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Model", "Price", "Storage"},
		{"P1", 250, 16},
		{},
		{"P2", 200.5, 32},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Parse("phones.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Model", "Price", "Storage"}, tbl.Header)
	require.Equal(t, 2, tbl.NumAlternatives())
	assert.Equal(t, []float64{200.5, 32}, tbl.Values[1])
}

func TestParseSpreadsheetRejectsGarbage(t *testing.T) {
	_, err := Parse("broken.xlsx", strings.NewReader("definitely not a zip"))
	requireKind(t, err, ErrMalformed)
}

func TestParseRejectsLegacyWorkbook(t *testing.T) {
	ole := "\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1"
	for _, name := range []string{"old.xls", "OLD.XLS"} {
		_, err := Parse(name, strings.NewReader(ole))
		de := requireKind(t, err, ErrUnsupportedFormat)
		assert.Contains(t, de.Msg, ".xlsx", name)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phones.csv")
	require.NoError(t, os.WriteFile(path, []byte(phonesCSV), 0o644))

	tbl, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumAlternatives())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tbl, err := Parse("phones.csv", strings.NewReader("Model,Price,Storage\nP1,250,16\nP2,200,16\nP3,300,32\n"))
	require.NoError(t, err)

	res, err := topsis.Compute(tbl.Matrix(), []float64{1, 1}, []topsis.Impact{topsis.Benefit, topsis.Cost})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, res, 4))

	want := "Model,Price,Storage,TOPSIS Score,Rank\n" +
		"P1,250,16,0.788105,1\n" +
		"P2,200,16,0.641729,2\n" +
		"P3,300,32,0.358271,3\n"
	assert.Equal(t, want, buf.String())
}

func TestResultRecordsRejectsMismatchedResult(t *testing.T) {
	tbl, err := Parse("d.csv", strings.NewReader("Id,A,B\nx,1,2\ny,2,1\n"))
	require.NoError(t, err)
	_, err = ResultRecords(tbl, &topsis.Result{}, 6)
	assert.Error(t, err)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0.500000", FormatScore(0.5, 2))
	assert.Equal(t, "0.12345679", FormatScore(0.123456789, 8))
}
