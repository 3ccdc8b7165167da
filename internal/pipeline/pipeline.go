package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/internal/tree"
)

// maxOrphanWarnings caps the per-row orphan warnings printed for one source.
const maxOrphanWarnings = 10

// ------------------- Pipeline Runner -------------------

// Run executes the job in strict sequence: the first source is pivoted into
// the tree, every later source is merged into it, and the document is written
// once all sources succeeded. Any error aborts the run.
func Run(ctx context.Context, jobID string, job model.PipelineJobSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting pipeline for job: %s\n", jobID)

	tracker := NewPipelineTracker(jobID, job)
	defer func() {
		if err != nil {
			tracker.Fail()
			log.Printf("❌ Error in job %s: %v\n", jobID, err)
			return
		}
		tracker.Complete()
	}()

	if len(job.Sources) == 0 {
		err = errors.New("job has no sources")
		tracker.RecordError("validate", "config", err.Error(), "")
		return err
	}
	mode, err := tree.ParseMergeMode(job.MergeMode)
	if err != nil {
		tracker.RecordError("validate", "config", err.Error(), "")
		return err
	}

	// --- BUILD STAGE ---
	primary := job.Sources[0]
	ds, err := ingest(tracker, job, primary)
	if err != nil {
		return err
	}

	tracker.StartStage("build")
	root, err := tree.Build(ds.Records, job.PrimaryKeyColumns(), job.PrimaryFieldNames(), job.ValueColumn)
	if err != nil {
		tracker.RecordError("build", "build", err.Error(), primary.URL)
		return fmt.Errorf("failed to build tree from %s: %w", primary.Name, err)
	}
	tracker.EndStage("build", int64(len(ds.Records)))
	fmt.Printf("🌳 Built tree from %d %s records\n", len(ds.Records), primary.Name)

	metadata := MetadataSet{}
	rec, err := sourceMetadata(tracker, primary)
	if err != nil {
		return err
	}
	metadata = append(metadata, rec)

	// --- MERGE STAGE ---
	for _, src := range job.Sources[1:] {
		if err := ctx.Err(); err != nil {
			return err
		}

		ds, err := ingest(tracker, job, src)
		if err != nil {
			return err
		}

		if err := merge(tracker, job, src, root, ds, mode); err != nil {
			return err
		}

		rec, err := sourceMetadata(tracker, src)
		if err != nil {
			return err
		}
		metadata = append(metadata, rec)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// --- EXPORT STAGE ---
	tracker.StartStage("export")
	result, err := ExportDocument(job.Export.File, Document{Metadata: metadata, Data: root})
	if err != nil {
		tracker.RecordError("export", "export", err.Error(), result.Path)
		return err
	}
	tracker.EndStage("export", result.Bytes)

	metrics := tracker.GetMetrics()
	fmt.Printf("🏁 Pipeline completed successfully for job: %s in %v (%d records, %d merged, %d orphans)\n",
		jobID, time.Since(start), metrics.TotalRecords, metrics.MergedRecords, metrics.OrphanRecords)
	return nil
}

func ingest(tracker *PipelineTracker, job model.PipelineJobSpec, src model.Source) (*model.Dataset, error) {
	stage := "ingest_" + src.Name
	tracker.StartStage(stage)
	startTime := time.Now()

	ds, err := LoadDataset(src, job.RequiredColumns(src))
	if err != nil {
		tracker.RecordError(stage, "ingestion", err.Error(), src.URL)
		return nil, fmt.Errorf("failed to load %s dataset: %w", src.Name, err)
	}

	tracker.RecordIngest(src.Name, int64(len(ds.Records)), time.Since(startTime))
	tracker.EndStage(stage, int64(len(ds.Records)))
	return ds, nil
}

func merge(tracker *PipelineTracker, job model.PipelineJobSpec, src model.Source, root tree.Node, ds *model.Dataset, mode tree.MergeMode) error {
	stage := "merge_" + src.Name
	tracker.StartStage(stage)

	stats, err := tree.Merge(root, ds.Records, tree.MergeSpec{
		Source:        src.Name,
		PrefixColumns: job.KeyColumns,
		PrefixLabels:  job.PrefixLabels(),
		ExtraColumn:   src.Column,
		ExtraLabel:    src.DimensionLabel(),
		ValueColumn:   job.ValueColumn,
		Mode:          mode,
	})
	if err != nil {
		tracker.RecordError(stage, "merge", err.Error(), src.URL)
		return fmt.Errorf("failed to merge %s dataset: %w", src.Name, err)
	}

	for i, path := range stats.Orphans {
		if i < maxOrphanWarnings {
			log.Printf("⚠️ Orphan row in %s: %s created a new branch\n", src.Name, path)
		}
		tracker.RecordOrphan(src.Name, path.String())
	}
	if n := len(stats.Orphans); n > 0 {
		tracker.RecordError(stage, "orphan_row", fmt.Sprintf("%d orphan rows", n), src.URL)
	}

	tracker.RecordMerge(src.Name, int64(stats.Merged), int64(len(stats.Orphans)))
	tracker.EndStage(stage, int64(stats.Merged))
	fmt.Printf("🔗 Merged %d %s records (%d overwritten, %d orphans)\n",
		stats.Merged, src.Name, stats.Overwritten, len(stats.Orphans))
	return nil
}

func sourceMetadata(tracker *PipelineTracker, src model.Source) (NamedMetadata, error) {
	doc, err := LoadMetadata(src.MetadataURL)
	if err != nil {
		tracker.RecordError("metadata_"+src.Name, "metadata", err.Error(), src.MetadataURL)
		return NamedMetadata{}, fmt.Errorf("failed to load %s metadata: %w", src.Name, err)
	}

	key := src.MetadataKey
	if key == "" {
		key = "source_" + src.Name
	}
	return NamedMetadata{Key: key, Record: ExtractMetadata(doc, src.Link)}, nil
}
