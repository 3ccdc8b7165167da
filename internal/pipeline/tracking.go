package pipeline

import (
	"fmt"
	"log"
	"time"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/internal/store"
)

// PipelineTracker records stage timings and counters for one run and mirrors
// them into the run store. When the store is not open the tracker keeps its
// metrics in memory only.
type PipelineTracker struct {
	JobID   string
	Metrics *model.PipelineMetrics
	persist bool
}

// NewPipelineTracker creates a new pipeline tracker
func NewPipelineTracker(jobID string, job model.PipelineJobSpec) *PipelineTracker {
	tracker := &PipelineTracker{
		JobID:   jobID,
		persist: store.IsOpen(),
		Metrics: &model.PipelineMetrics{
			JobID:         jobID,
			Status:        "initializing",
			StartTime:     time.Now(),
			StageMetrics:  make(map[string]model.StageMetrics),
			SourceMetrics: make(map[string]model.SourceMetrics),
			Errors:        make([]model.ErrorDetail, 0),
		},
	}

	// Initialize source metrics
	for _, source := range job.Sources {
		tracker.Metrics.SourceMetrics[source.Name] = model.SourceMetrics{
			SourceURL: source.URL,
		}
	}

	return tracker
}

// StartStage marks the beginning of a stage
func (pt *PipelineTracker) StartStage(stage string) {
	now := time.Now()
	pt.Metrics.Status = stage
	pt.Metrics.StageMetrics[stage] = model.StageMetrics{
		StageName: stage,
		StartTime: now,
		Status:    "running",
	}
	pt.updateStatus(stage)
	pt.saveStage(stage)
}

// EndStage marks a stage as completed
func (pt *PipelineTracker) EndStage(stage string, recordsProcessed int64) {
	sm := pt.Metrics.StageMetrics[stage]
	sm.EndTime = time.Now()
	sm.Duration = sm.EndTime.Sub(sm.StartTime)
	sm.RecordsProcessed = recordsProcessed
	sm.Status = "completed"
	pt.Metrics.StageMetrics[stage] = sm
	pt.saveStage(stage)
}

// RecordIngest stores per-source ingestion counters
func (pt *PipelineTracker) RecordIngest(source string, records int64, took time.Duration) {
	sm := pt.Metrics.SourceMetrics[source]
	sm.RecordsIngested = records
	sm.IngestionTime = took
	pt.Metrics.SourceMetrics[source] = sm
	pt.Metrics.TotalRecords += records
}

// RecordMerge stores per-source merge counters
func (pt *PipelineTracker) RecordMerge(source string, merged, orphaned int64) {
	sm := pt.Metrics.SourceMetrics[source]
	sm.RecordsMerged = merged
	sm.RecordsOrphaned = orphaned
	pt.Metrics.SourceMetrics[source] = sm
	pt.Metrics.MergedRecords += merged
	pt.Metrics.OrphanRecords += orphaned
}

// RecordError adds an error to the metrics and the run store
func (pt *PipelineTracker) RecordError(stage, errorType, message, sourceURL string) {
	detail := model.ErrorDetail{
		Stage:     stage,
		ErrorType: errorType,
		Message:   message,
		SourceURL: sourceURL,
		Timestamp: time.Now(),
		Severity:  determineSeverity(errorType),
	}
	pt.Metrics.Errors = append(pt.Metrics.Errors, detail)
	pt.Metrics.ErrorCount++

	if sm, ok := pt.Metrics.StageMetrics[stage]; ok {
		sm.Status = "failed"
		pt.Metrics.StageMetrics[stage] = sm
		pt.saveStage(stage)
	}

	if pt.persist {
		if err := store.SaveJobError(pt.JobID, fmt.Errorf("[%s] %s: %s", stage, errorType, message)); err != nil {
			log.Printf("⚠️ Failed to save job error: %v\n", err)
		}
	}
	if detail.Severity == "critical" {
		log.Printf("🚨 CRITICAL ERROR [%s]: %s\n", stage, message)
	}
}

// RecordOrphan saves the key path of a row that did not attach to the
// primary tree
func (pt *PipelineTracker) RecordOrphan(source, keyPath string) {
	if !pt.persist {
		return
	}
	if err := store.SaveOrphanRow(pt.JobID, source, keyPath); err != nil {
		log.Printf("⚠️ Failed to save orphan row: %v\n", err)
	}
}

// Complete marks the run as completed
func (pt *PipelineTracker) Complete() {
	pt.finish("completed")
}

// Fail marks the run as failed
func (pt *PipelineTracker) Fail() {
	pt.finish("failed")
}

// GetMetrics returns a copy of the current metrics
func (pt *PipelineTracker) GetMetrics() model.PipelineMetrics {
	return *pt.Metrics
}

func (pt *PipelineTracker) finish(status string) {
	pt.Metrics.Status = status
	pt.Metrics.EndTime = time.Now()
	pt.Metrics.ProcessingTime = pt.Metrics.EndTime.Sub(pt.Metrics.StartTime)
	pt.updateStatus(status)
}

func (pt *PipelineTracker) updateStatus(status string) {
	if !pt.persist {
		return
	}
	if err := store.UpdateJobStatus(pt.JobID, status); err != nil {
		log.Printf("⚠️ Failed to update job status: %v\n", err)
	}
}

func (pt *PipelineTracker) saveStage(stage string) {
	if !pt.persist {
		return
	}
	sm := pt.Metrics.StageMetrics[stage]
	var end *time.Time
	if !sm.EndTime.IsZero() {
		end = &sm.EndTime
	}
	if err := store.SaveStageProgress(pt.JobID, stage, sm.Status, &sm.StartTime, end, int(sm.RecordsProcessed), 0); err != nil {
		log.Printf("⚠️ Failed to save stage progress: %v\n", err)
	}
}

// determineSeverity maps an error type to a severity level
func determineSeverity(errorType string) string {
	switch errorType {
	case "orphan_row":
		return "medium"
	case "ingestion", "export", "merge":
		return "critical"
	default:
		return "high"
	}
}
