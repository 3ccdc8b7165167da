package model

import "time"

// Record holds the wanted cells of one input row, keyed by column name
type Record map[string]string

// Dataset is a loaded tabular source
type Dataset struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// MetadataRecord is the descriptive block written for each source.
// Field order is the output order; nil fields are written as null.
type MetadataRecord struct {
	Title               *string `json:"title"`
	Author              *string `json:"author"`
	Description         *string `json:"description"`
	DOI                 *string `json:"DOI"`
	OnlineID            *string `json:"online_id"`
	Link                *string `json:"link"`
	CreationDate        *string `json:"creation_date"`
	LastUpdate          *string `json:"last_update"`
	LastUpdateStructure *string `json:"last_update_structure"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type      string    `json:"type"` // "json"
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
