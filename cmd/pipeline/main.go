package main

import (
	"context"
	"log"
	"os"

	"tourism-pipeline/internal/config"
	"tourism-pipeline/internal/pipeline"
	"tourism-pipeline/internal/store"

	"github.com/google/uuid"
)

func main() {
	job, err := config.LoadJob(".")
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Init DB
	if err := store.InitDB(job.Store.DB); err != nil {
		log.Fatalf("❌ Failed to open run store: %v", err)
	}
	defer store.Close()

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, job); err != nil {
		log.Fatalf("❌ Failed to save job: %v", err)
	}

	if err := pipeline.Run(context.Background(), jobID, job); err != nil {
		log.Printf("❌ Pipeline failed: %v", err)
		store.Close()
		os.Exit(1)
	}
}
