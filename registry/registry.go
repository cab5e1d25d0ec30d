// Package registry persists training runs and AutoML job state in SQLite so
// the serving API can report history across process restarts.
package registry

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// Run is one fit invocation of the selection pipeline.
type Run struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	DataDir    string    `json:"data_dir"`
	ModelDir   string    `json:"model_dir"`
	Rows       int       `json:"rows"`
	Features   int       `json:"features"`
	Selected   int       `json:"selected"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Job mirrors the external AutoML service's view of a submitted job.
type Job struct {
	Name          string    `json:"name"`
	State         string    `json:"state"`
	BestCandidate string    `json:"best_candidate,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// InitDB opens the SQLite database and creates tables.
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        status TEXT NOT NULL,
        data_dir TEXT,
        model_dir TEXT,
        rows INTEGER DEFAULT 0,
        features INTEGER DEFAULT 0,
        selected INTEGER DEFAULT 0,
        error TEXT DEFAULT '',
        started_at DATETIME NOT NULL,
        finished_at DATETIME
    );
    CREATE TABLE IF NOT EXISTS jobs (
        name TEXT PRIMARY KEY,
        state TEXT NOT NULL,
        best_candidate TEXT DEFAULT '',
        updated_at DATETIME NOT NULL
    );
    `

	_, err = database.Exec(query)
	return err
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// SaveRun inserts or replaces a run record.
func SaveRun(run Run) error {
	if database == nil {
		return errors.New("registry not initialized")
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	_, err := database.Exec(`
        INSERT OR REPLACE INTO runs (
            id, status, data_dir, model_dir, rows, features, selected, error, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.DataDir, run.ModelDir,
		run.Rows, run.Features, run.Selected, run.Error,
		run.StartedAt, run.FinishedAt)
	return err
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(limit int) ([]Run, error) {
	if database == nil {
		return nil, errors.New("registry not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(`
        SELECT id, status, data_dir, model_dir, rows, features, selected, error, started_at, finished_at
        FROM runs
        ORDER BY started_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Status, &run.DataDir, &run.ModelDir,
			&run.Rows, &run.Features, &run.Selected, &run.Error,
			&run.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run by id.
func GetRun(id string) (*Run, error) {
	if database == nil {
		return nil, errors.New("registry not initialized")
	}
	var run Run
	var finished sql.NullTime
	err := database.QueryRow(`
        SELECT id, status, data_dir, model_dir, rows, features, selected, error, started_at, finished_at
        FROM runs
        WHERE id = ?`, id).Scan(&run.ID, &run.Status, &run.DataDir, &run.ModelDir,
		&run.Rows, &run.Features, &run.Selected, &run.Error,
		&run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}

// SaveJob inserts or replaces an AutoML job record.
func SaveJob(job Job) error {
	if database == nil {
		return errors.New("registry not initialized")
	}
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = time.Now().UTC()
	}
	_, err := database.Exec(`
        INSERT OR REPLACE INTO jobs (name, state, best_candidate, updated_at)
        VALUES (?, ?, ?, ?)`,
		job.Name, job.State, job.BestCandidate, job.UpdatedAt)
	return err
}

// ListJobs returns recorded AutoML jobs, most recently updated first.
func ListJobs(limit int) ([]Job, error) {
	if database == nil {
		return nil, errors.New("registry not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(`
        SELECT name, state, best_candidate, updated_at
        FROM jobs
        ORDER BY updated_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.Name, &job.State, &job.BestCandidate, &job.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
