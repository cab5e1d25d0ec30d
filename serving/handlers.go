package serving

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"featuremill/registry"
	"featuremill/selection"
	"featuremill/tabular"
	"featuremill/training"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePing is the hosting runtime's readiness probe: healthy only when the
// model artifacts load.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if _, err := s.cache.Get(s.cfg.Paths.ModelDir); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInvocations runs the full hook chain over one request batch.
func (s *Server) handleInvocations(w http.ResponseWriter, r *http.Request) {
	model, err := s.cache.Get(s.cfg.Paths.ModelDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ds, err := InputFn(r.Body, r.Header.Get("Content-Type"), s.schema)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows, err := PredictFn(ds, model)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload, contentType, err := OutputFn(rows, r.Header.Get("Accept"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(payload)
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	names, err := selection.LoadSelectedFeatures(s.cfg.Paths.ModelDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"selected_features": names})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := registry.ListRuns(50)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := registry.ListJobs(50)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// handleTrain kicks off an asynchronous fit over the configured directories.
// Progress streams on /api/ws/progress; the final state lands in the registry.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	req := struct {
		DataDir   string `json:"data_dir"`
		ModelDir  string `json:"model_dir"`
		OutputDir string `json:"output_dir"`
	}{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
	}
	if req.DataDir == "" {
		req.DataDir = s.cfg.Paths.DataDir
	}
	if req.ModelDir == "" {
		req.ModelDir = s.cfg.Paths.ModelDir
	}
	if req.OutputDir == "" {
		req.OutputDir = s.cfg.Paths.OutputDir
	}

	runID := training.NewRunID()
	cfg := training.Config{
		RunID:       runID,
		DataDir:     req.DataDir,
		ModelDir:    req.ModelDir,
		OutputDir:   req.OutputDir,
		Schema:      s.schema,
		RFETarget:   s.cfg.Selection.RFETarget,
		FTestK:      s.cfg.Selection.FTestK,
		MutualInfoK: s.cfg.Selection.MutualInfoK,
		Bins:        s.cfg.Selection.Bins,
	}
	go func() {
		if _, err := s.runner.Fit(context.Background(), cfg); err != nil {
			s.logger.Error("training run failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var mediaErr *UnsupportedMediaTypeError
	var dimErr *tabular.DimensionError
	var dataErr *tabular.DataError
	switch {
	case errors.As(err, &mediaErr):
		status = http.StatusUnsupportedMediaType
	case errors.As(err, &dimErr):
		status = http.StatusBadRequest
	case errors.As(err, &dataErr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
