package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/internal/tree"
	"tourism-pipeline/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDocumentWritesLiteralText(t *testing.T) {
	root, err := tree.Build([]model.Record{
		{"geo": "Türkiye", "OBS_VALUE": "5"},
	}, []string{"geo"}, nil, "OBS_VALUE")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	result, err := ExportDocument(path, Document{
		Metadata: MetadataSet{
			{Key: "source_b", Record: model.MetadataRecord{Title: utils.StringPtr("Trips & nights")}},
			{Key: "source_a", Record: model.MetadataRecord{}},
		},
		Data: root,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, path, result.Path)
	assert.Positive(t, result.Bytes)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"title": "Trips & nights"`)
	assert.Contains(t, out, `"Türkiye": 5`)
	assert.Less(t, strings.Index(out, "source_b"), strings.Index(out, "source_a"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestExportDocumentFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// The parent of the output is a regular file, so nothing can be created.
	path := filepath.Join(blocker, "out.json")
	result, err := ExportDocument(path, Document{})
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	_, statErr := os.Stat(path)
	assert.Error(t, statErr)
}

func TestExportDocumentFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	_, err := ExportDocument(path, Document{})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// A replaced file keeps its mode.
	require.NoError(t, os.Chmod(path, 0o640))
	_, err = ExportDocument(path, Document{})
	require.NoError(t, err)
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
