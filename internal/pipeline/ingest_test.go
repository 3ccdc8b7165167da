package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"tourism-pipeline/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var transportColumns = []string{"geo", "TIME_PERIOD", "c_dest", "purpose", "duration", "tra_mode", "OBS_VALUE"}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadDatasetCSV(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "transport.csv", "\xEF\xBB\xBF"+
		`DATAFLOW,"geo", TIME_PERIOD,c_dest,purpose,duration,tra_mode,OBS_VALUE,OBS_FLAG
ESTAT:TOUR_DEM_TTTR(1.0),FR,2019,ES,Personal,1-3 nights,Air,120,
,,,,,,,,
ESTAT:TOUR_DEM_TTTR(1.0),FR,2019,ES,Personal,1-3 nights,Rail,,c
`)

	ds, err := LoadDataset(model.Source{Name: "transport", URL: p}, transportColumns)
	require.NoError(t, err)
	assert.Equal(t, p, ds.Source)
	assert.Equal(t, transportColumns, ds.Columns)
	require.Len(t, ds.Records, 2)

	first := ds.Records[0]
	assert.Equal(t, "FR", first["geo"])
	assert.Equal(t, "2019", first["TIME_PERIOD"])
	assert.Equal(t, "1-3 nights", first["duration"])
	assert.Equal(t, "120", first["OBS_VALUE"])
	_, kept := first["OBS_FLAG"]
	assert.False(t, kept, "unrequested columns are dropped")

	assert.Equal(t, "", ds.Records[1]["OBS_VALUE"])
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "month.csv", "geo,TIME_PERIOD,c_dest,purpose,duration,OBS_VALUE\nFR,2019,ES,P,D,1\n")

	_, err := LoadDataset(model.Source{Name: "month", URL: p}, []string{"geo", "month", "OBS_VALUE"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "month")
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(model.Source{Name: "income", URL: filepath.Join(t.TempDir(), "nope.csv")}, transportColumns)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDatasetUnsupportedFormat(t *testing.T) {
	_, err := LoadDataset(model.Source{Name: "x", URL: "data/file.parquet"}, transportColumns)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDatasetEmptyFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.csv", "")
	_, err := LoadDataset(model.Source{Name: "empty", URL: p}, transportColumns)
	assert.Error(t, err)
}

func TestLoadDatasetXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transport.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"geo", "TIME_PERIOD", "c_dest", "purpose", "duration", "tra_mode", "OBS_VALUE"},
		{"DE", "2020", "IT", "Business", "4+ nights", "Road", "7"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, err := LoadDataset(model.Source{Name: "transport", URL: p}, transportColumns)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "DE", ds.Records[0]["geo"])
	assert.Equal(t, "Road", ds.Records[0]["tra_mode"])
	assert.Equal(t, "7", ds.Records[0]["OBS_VALUE"])
}

func TestValidateColumns(t *testing.T) {
	index, err := ValidateColumns([]string{"a", "b", "a"}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, index["a"])
	assert.Equal(t, 1, index["b"])

	_, err = ValidateColumns([]string{"a"}, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "b, c")
}
