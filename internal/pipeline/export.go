package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/internal/tree"
	"tourism-pipeline/pkg/utils"
)

// Document is the exported JSON: per-source metadata plus the merged tree.
type Document struct {
	Metadata MetadataSet `json:"metadata"`
	Data     tree.Node   `json:"data"`
}

// NamedMetadata pairs a metadata record with its key in the output.
type NamedMetadata struct {
	Key    string
	Record model.MetadataRecord
}

// MetadataSet keeps metadata entries in source order.
type MetadataSet []NamedMetadata

// MarshalJSON writes the set as an object in source order.
func (m MetadataSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalLiteral(entry.Key)
		if err != nil {
			return nil, err
		}
		rec, err := marshalLiteral(entry.Record)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalLiteral encodes v without HTML escaping.
func marshalLiteral(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// outputMode is applied to a newly created output file; a replaced file keeps
// its previous mode.
const outputMode os.FileMode = 0o644

// ExportDocument writes doc to path as indented UTF-8 JSON. The document is
// written to a temporary file in the same directory and renamed into place,
// so a failed export never leaves a partial or replaced output file.
func ExportDocument(path string, doc Document) (model.ExportResult, error) {
	result := model.ExportResult{
		Type:      "json",
		Path:      path,
		Timestamp: time.Now(),
	}

	fail := func(err error) (model.ExportResult, error) {
		result.Error = err.Error()
		fmt.Printf("❌ Export to file failed: %v\n", err)
		return result, err
	}

	om := utils.NewOutputManager(filepath.Dir(path))
	tmp, err := om.CreateTempFile(path)
	if err != nil {
		return fail(err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fail(fmt.Errorf("failed to encode JSON: %w", err))
	}
	mode := outputMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail(fmt.Errorf("failed to set output mode: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync output: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("failed to close output: %w", err))
	}
	if err := os.Rename(tmpName, om.GetOutputFilePath(path)); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return fail(fmt.Errorf("failed to move output into place: %w", err))
	}
	committed = true

	if size, err := om.GetFileSize(path); err == nil {
		result.Bytes = size
	}
	result.Success = true
	fmt.Printf("✅ Export to file successful: %d bytes written to %s\n", result.Bytes, path)
	return result, nil
}
