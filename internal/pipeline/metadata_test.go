package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullMetadata = `{
  "label": "Trips by main mode of transport",
  "extension": {
    "id": "tour_dem_tttr",
    "annotation": [
      {"type": "CREATED", "date": "2013-05-06T11:00:00+0200"},
      {"type": "UPDATE_DATA", "date": "2024-06-14T23:00:00+0200"},
      {"type": "UPDATE_STRUCTURE", "date": "2024-02-01T11:00:00+0100"},
      {"type": "DISSEMINATION_DOI_XML", "title": "<doi>10.2908/TOUR_DEM_TTTR</doi>"},
      {"type": "SOURCE_INSTITUTIONS", "text": "Eurostat"},
      {"type": "OBS_COUNT", "title": "12345"}
    ]
  }
}`

func decodeMetadata(t *testing.T, raw string) *MetadataDocument {
	t.Helper()
	var doc MetadataDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestExtractMetadataAllAnnotations(t *testing.T) {
	rec := ExtractMetadata(decodeMetadata(t, fullMetadata), "https://example.org/tttr")

	require.NotNil(t, rec.Title)
	assert.Equal(t, "Trips by main mode of transport", *rec.Title)
	require.NotNil(t, rec.OnlineID)
	assert.Equal(t, "tour_dem_tttr", *rec.OnlineID)
	require.NotNil(t, rec.Link)
	assert.Equal(t, "https://example.org/tttr", *rec.Link)
	require.NotNil(t, rec.CreationDate)
	assert.Equal(t, "2013-05-06T11:00:00+0200", *rec.CreationDate)
	require.NotNil(t, rec.LastUpdate)
	assert.Equal(t, "2024-06-14T23:00:00+0200", *rec.LastUpdate)
	require.NotNil(t, rec.LastUpdateStructure)
	assert.Equal(t, "2024-02-01T11:00:00+0100", *rec.LastUpdateStructure)
	require.NotNil(t, rec.DOI)
	assert.Equal(t, "10.2908/TOUR_DEM_TTTR", *rec.DOI)
	require.NotNil(t, rec.Author)
	assert.Equal(t, "Eurostat", *rec.Author)
	assert.Nil(t, rec.Description)
}

func TestExtractMetadataMissingFieldsStayNull(t *testing.T) {
	rec := ExtractMetadata(decodeMetadata(t, `{"extension": {"annotation": [
		{"type": "DISSEMINATION_DOI_XML", "title": "no identifier here"},
		{"type": "UNKNOWN"}
	]}}`), "")

	assert.Nil(t, rec.Title)
	assert.Nil(t, rec.OnlineID)
	assert.Nil(t, rec.Link)
	assert.Nil(t, rec.DOI)
	assert.Nil(t, rec.Author)
	assert.Nil(t, rec.CreationDate)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":null,"author":null,"description":null,"DOI":null,"online_id":null,
		"link":null,"creation_date":null,"last_update":null,"last_update_structure":null}`, string(out))
}

func TestExtractMetadataDOIIsCaseInsensitive(t *testing.T) {
	rec := ExtractMetadata(decodeMetadata(t, `{"extension": {"annotation": [
		{"type": "DISSEMINATION_DOI_XML", "title": "https://doi.org/10.2908/tour_dem_ttmd"}
	]}}`), "")

	require.NotNil(t, rec.DOI)
	assert.Equal(t, "10.2908/tour_dem_ttmd", *rec.DOI)
}

func TestLoadMetadataErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMetadata(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadMetadata(bad)
	assert.Error(t, err)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(fullMetadata), 0644))
	doc, err := LoadMetadata(good)
	require.NoError(t, err)
	assert.Len(t, doc.Extension.Annotation, 6)
}
