package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tourism-pipeline/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// Initialize DB connection
func InitDB(dbPath string) error {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	// An in-memory database lives in a single connection.
	db.SetMaxOpenConns(1)

	// Create tables if not exists
	tables := []string{`
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`, `
	CREATE TABLE IF NOT EXISTS job_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);`, `
	CREATE TABLE IF NOT EXISTS stage_progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		stage TEXT,
		status TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		records INTEGER,
		errors INTEGER
	);`, `
	CREATE TABLE IF NOT EXISTS orphan_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		source TEXT,
		key_path TEXT,
		created_at DATETIME
	);`,
	}

	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// IsOpen reports whether InitDB has opened the database
func IsOpen() bool {
	return db != nil
}

// Close releases the database handle
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveJob stores a new pipeline job
func SaveJob(jobID string, spec model.PipelineJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, string(specJSON), "pending", now, now)
	return err
}

// SaveJobError records an error for a job
func SaveJobError(jobID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// ListJobErrors returns the error messages recorded for a job, oldest first
func ListJobErrors(jobID string) ([]string, error) {
	rows, err := db.Query(`SELECT error_message FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// GetJob fetches full job spec and status
func GetJob(jobID string) (map[string]interface{}, error) {
	var specJSON string
	var status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.PipelineJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// UpdateJobStatus updates job status
func UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveStageProgress records the state of one pipeline stage
func SaveStageProgress(jobID, stage, status string, startedAt, finishedAt *time.Time, records, errors int) error {
	_, err := db.Exec(`INSERT INTO stage_progress (job_id, stage, status, started_at, finished_at, records, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jobID, stage, status, startedAt, finishedAt, records, errors)
	return err
}

// SaveOrphanRow records a secondary row whose key path was missing from the tree
func SaveOrphanRow(jobID, source, keyPath string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO orphan_rows (job_id, source, key_path, created_at) VALUES (?, ?, ?, ?)`,
		jobID, source, keyPath, now)
	return err
}

// CountOrphanRows returns how many orphan rows were recorded for a job
func CountOrphanRows(jobID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM orphan_rows WHERE job_id = ?`, jobID).Scan(&n)
	return n, err
}
