package model

import "time"

// PipelineMetrics represents overall pipeline metrics
type PipelineMetrics struct {
	JobID          string                   `json:"job_id"`
	Status         string                   `json:"status"`
	StartTime      time.Time                `json:"start_time"`
	EndTime        time.Time                `json:"end_time"`
	ProcessingTime time.Duration            `json:"processing_time"`
	TotalRecords   int64                    `json:"total_records"`
	MergedRecords  int64                    `json:"merged_records"`
	OrphanRecords  int64                    `json:"orphan_records"`
	ErrorCount     int64                    `json:"error_count"`
	StageMetrics   map[string]StageMetrics  `json:"stage_metrics"`
	SourceMetrics  map[string]SourceMetrics `json:"source_metrics"`
	Errors         []ErrorDetail            `json:"errors"`
}

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
	Status           string        `json:"status"` // "running", "completed", "failed"
}

// SourceMetrics represents metrics for a specific data source
type SourceMetrics struct {
	SourceURL       string        `json:"source_url"`
	RecordsIngested int64         `json:"records_ingested"`
	RecordsMerged   int64         `json:"records_merged"`
	RecordsOrphaned int64         `json:"records_orphaned"`
	IngestionTime   time.Duration `json:"ingestion_time"`
}

// ErrorDetail represents a detailed error with context
type ErrorDetail struct {
	Stage     string    `json:"stage"`
	ErrorType string    `json:"error_type"`
	Message   string    `json:"message"`
	SourceURL string    `json:"source_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
}
