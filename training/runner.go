// Package training drives one fit invocation end to end: load the training
// directory, fit the selection pipeline, persist artifacts, record the run,
// and optionally push everything to an object store.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"featuremill/monitoring"
	"featuremill/registry"
	"featuremill/selection"
	"featuremill/store"
	"featuremill/tabular"
)

// Config carries everything a fit invocation needs, passed by value.
type Config struct {
	// RunID names the run; empty means one is generated.
	RunID     string
	DataDir   string
	ModelDir  string
	OutputDir string
	Schema    tabular.Schema

	RFETarget   int
	FTestK      int
	MutualInfoK int
	Bins        int
}

// Runner executes fit invocations. Store and Hub are optional; Logger may be
// nil. A Runner is stateless across invocations.
type Runner struct {
	Store  store.Store
	Hub    *monitoring.Hub
	Logger *zap.Logger
}

// Result summarizes a completed fit.
type Result struct {
	RunID            string   `json:"run_id"`
	Rows             int      `json:"rows"`
	Features         int      `json:"features"`
	SelectedFeatures []string `json:"selected_features"`
	ModelDir         string   `json:"model_dir"`
	Elapsed          string   `json:"elapsed"`
}

// Fit runs the pipeline over cfg.DataDir and persists the fitted model. Any
// failure is total for the invocation; nothing is retried here.
func (r *Runner) Fit(ctx context.Context, cfg Config) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}
	started := time.Now().UTC()
	r.publish(monitoring.Event{Type: monitoring.RunStarted, RunID: runID})
	r.record(registry.Run{
		ID:        runID,
		Status:    registry.RunRunning,
		DataDir:   cfg.DataDir,
		ModelDir:  cfg.ModelDir,
		Features:  cfg.Schema.Width(),
		StartedAt: started,
	}, logger)

	result, err := r.fit(ctx, runID, cfg, logger)
	finished := time.Now().UTC()
	if err != nil {
		r.publish(monitoring.Event{Type: monitoring.RunFailed, RunID: runID, Message: err.Error()})
		r.record(registry.Run{
			ID:         runID,
			Status:     registry.RunFailed,
			DataDir:    cfg.DataDir,
			ModelDir:   cfg.ModelDir,
			Features:   cfg.Schema.Width(),
			Error:      err.Error(),
			StartedAt:  started,
			FinishedAt: finished,
		}, logger)
		return nil, err
	}

	r.publish(monitoring.Event{Type: monitoring.RunFinished, RunID: runID, Surviving: len(result.SelectedFeatures)})
	r.record(registry.Run{
		ID:         runID,
		Status:     registry.RunCompleted,
		DataDir:    cfg.DataDir,
		ModelDir:   cfg.ModelDir,
		Rows:       result.Rows,
		Features:   cfg.Schema.Width(),
		Selected:   len(result.SelectedFeatures),
		StartedAt:  started,
		FinishedAt: finished,
	}, logger)
	result.Elapsed = finished.Sub(started).String()
	return result, nil
}

func (r *Runner) fit(ctx context.Context, runID string, cfg Config, logger *zap.Logger) (*Result, error) {
	ds, err := tabular.LoadDir(cfg.DataDir, cfg.Schema)
	if err != nil {
		return nil, err
	}
	logger.Info("training data loaded",
		zap.String("run_id", runID),
		zap.Int("rows", ds.Len()),
		zap.Int("features", cfg.Schema.Width()))

	pipeline, err := selection.NewPipeline(
		&selection.RFE{Target: cfg.RFETarget},
		&selection.FTest{K: cfg.FTestK},
		&selection.MutualInfo{K: cfg.MutualInfoK, Bins: cfg.Bins},
	)
	if err != nil {
		return nil, err
	}
	pipeline.OnStage(func(stage string, surviving int) {
		logger.Info("stage fitted", zap.String("run_id", runID), zap.String("stage", stage), zap.Int("surviving", surviving))
		r.publish(monitoring.Event{Type: monitoring.StageFitted, RunID: runID, Stage: stage, Surviving: surviving})
	})

	model, err := pipeline.Fit(ds)
	if err != nil {
		return nil, err
	}
	if err := model.Save(cfg.ModelDir); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:            runID,
		Rows:             ds.Len(),
		Features:         cfg.Schema.Width(),
		SelectedFeatures: model.SelectedFeatures,
		ModelDir:         cfg.ModelDir,
	}
	if cfg.OutputDir != "" {
		if err := writeReport(cfg.OutputDir, result); err != nil {
			return nil, err
		}
	}

	if r.Store != nil {
		if err := store.UploadDir(ctx, r.Store, "models/"+runID, cfg.ModelDir); err != nil {
			return nil, fmt.Errorf("upload artifacts: %w", err)
		}
		logger.Info("artifacts uploaded", zap.String("run_id", runID), zap.String("prefix", "models/"+runID))
	}
	return result, nil
}

func (r *Runner) publish(event monitoring.Event) {
	if r.Hub != nil {
		r.Hub.Publish(event)
	}
}

func (r *Runner) record(run registry.Run, logger *zap.Logger) {
	if err := registry.SaveRun(run); err != nil {
		logger.Warn("run not recorded", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func writeReport(dir string, result *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "report.json"), payload, 0o644)
}

// NewRunID generates a unique, sortable run identifier.
func NewRunID() string {
	return fmt.Sprintf("run-%s-%04d", time.Now().UTC().Format("20060102-150405"), rand.Intn(10000))
}
