package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"120", 120},
		{" 7 ", 7},
		{"35.5", 35.5},
		{"1e3", 1000.0},
		{"", nil},
		{"   ", nil},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"1-3 nights", "1-3 nights"},
		{":", ":"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), "ParseValue(%q)", tt.in)
	}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "geo", CleanHeader(` "geo" `))
	assert.Equal(t, "OBS_VALUE", CleanHeader("OBS_VALUE"))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "csv", FileType("data/a.CSV"))
	assert.Equal(t, "xlsx", FileType("a.xlsx"))
	assert.Equal(t, "json", FileType("a.json"))
	assert.Equal(t, "unknown", FileType("a"))
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om := NewOutputManager(dir)
	assert.Equal(t, filepath.Join(dir, "x.json"), om.GetOutputFilePath("elsewhere/x.json"))

	f, err := om.CreateTempFile("x.json")
	require.NoError(t, err)
	_, err = f.WriteString("{}")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	size, err := om.GetFileSize(f.Name())
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
	assert.Equal(t, dir, filepath.Dir(f.Name()))

	assert.Equal(t, ".", NewOutputManager("").BaseOutputDir)
}
