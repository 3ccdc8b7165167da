package pipeline

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when a source file is neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ------------------- Ingestion -------------------

// LoadDataset reads a source file and keeps only the required columns.
// A missing file or a missing required column is an error.
func LoadDataset(source model.Source, required []string) (*model.Dataset, error) {
	fmt.Printf("📄 Loading %s dataset from %s\n", source.Name, source.URL)

	format := strings.ToLower(source.Type)
	if format == "" {
		format = utils.FileType(source.URL)
	}

	var (
		rows [][]string
		err  error
	)
	switch format {
	case "csv":
		rows, err = readCSV(source.URL)
	case "xlsx":
		rows, err = readExcel(source.URL)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, source.URL, format)
	}
	if err != nil {
		return nil, err
	}

	ds, err := buildDataset(source.URL, rows, required)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.URL, err)
	}

	fmt.Printf("📄 %s ingestion done: %d records read from %s\n", source.Name, len(ds.Records), source.URL)
	return ds, nil
}

// ------------------- CSV Ingestion -------------------
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV read error: %w", err)
	}
	return rows, nil
}

// ------------------- XLSX Ingestion -------------------
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return rows, nil
}

// buildDataset maps rows onto the header and keeps the required columns.
// Blank rows are skipped.
func buildDataset(sourceURL string, rows [][]string, required []string) (*model.Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.New("failed to read header: file is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = utils.CleanHeader(h)
	}

	index, err := ValidateColumns(headers, required)
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{
		Source:  sourceURL,
		Columns: append([]string{}, required...),
	}
	skipped := 0
	for _, row := range rows[1:] {
		if isBlank(row) {
			skipped++
			continue
		}
		rec := make(model.Record, len(required))
		for _, col := range required {
			if i := index[col]; i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			} else {
				rec[col] = ""
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	if skipped > 0 {
		log.Printf("⚠️ Skipped %d blank rows in %s\n", skipped, sourceURL)
	}
	return ds, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
