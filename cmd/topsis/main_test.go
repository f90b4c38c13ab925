package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phones.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const phones = "Model,Price,Storage\nP1,250,16\nP2,200,16\nP3,300,32\n"

func TestRunPrintsTable(t *testing.T) {
	path := writeDataset(t, phones)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-weights", "1,1", "-impacts", "+,-", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "TOPSIS Score")
	assert.Contains(t, out, "0.788105")
	assert.Less(t, strings.Index(out, "P1"), strings.Index(out, "P3"))
	assert.Empty(t, stderr.String())
}

func TestRunWritesCSV(t *testing.T) {
	path := writeDataset(t, phones)
	out := filepath.Join(t.TempDir(), "ranked.csv")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-weights", "1, 1", "-impacts", "benefit,cost", "-o", out, path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "Model,Price,Storage,TOPSIS Score,Rank\n" +
		"P1,250,16,0.788105,1\n" +
		"P2,200,16,0.641729,2\n" +
		"P3,300,32,0.358271,3\n"
	assert.Equal(t, want, string(data))
	assert.Contains(t, stdout.String(), "wrote "+out)
}

func TestRunErrors(t *testing.T) {
	path := writeDataset(t, phones)
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no file", []string{"-weights", "1,1", "-impacts", "+,-"}, 2, "usage"},
		{"no weights", []string{"-impacts", "+,-", path}, 2, "usage"},
		{"bad weight", []string{"-weights", "1,x", "-impacts", "+,-", path}, 2, "not a number"},
		{"bad impact", []string{"-weights", "1,1", "-impacts", "+,?", path}, 2, "impact 2"},
		{"dimension", []string{"-weights", "1,1,1", "-impacts", "+,-", path}, 1, "number of weights"},
		{"zero weight", []string{"-weights", "0,1", "-impacts", "+,-", path}, 1, "positive"},
		{"missing file", []string{"-weights", "1,1", "-impacts", "+,-", filepath.Join(t.TempDir(), "nope.csv")}, 1, "topsis:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr.String(), tt.msg)
		})
	}
}

func TestRenderTableStyled(t *testing.T) {
	header := []string{"Model", "Price", "TOPSIS Score", "Rank"}
	records := [][]string{{"P1", "250", "0.9", "1"}, {"P2", "200", "0.1", "2"}}

	plain := renderTable(header, records, false)
	styled := renderTable(header, records, true)
	assert.Contains(t, plain, "+")
	assert.Contains(t, styled, "╭")
	for _, s := range []string{plain, styled} {
		assert.Contains(t, s, "P1")
		assert.Contains(t, s, "Rank")
	}
}

func TestParseWeights(t *testing.T) {
	got, err := parseWeights(" 1, 2.5 ,3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, got)

	_, err = parseWeights("1,,2")
	assert.Error(t, err)
}
