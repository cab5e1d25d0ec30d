package serving

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremill/config"
	"featuremill/registry"
)

func newTestServer(t *testing.T, withModel bool) *Server {
	t.Helper()

	require.NoError(t, registry.InitDB(filepath.Join(t.TempDir(), "registry.db")))
	t.Cleanup(func() { registry.Close() })

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Schema.Features = 20
	cfg.Paths.ModelDir = t.TempDir()

	if withModel {
		model, _ := fittedModel(t)
		require.NoError(t, model.Save(cfg.Paths.ModelDir))
	}

	server, err := NewServer(cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { server.cache.Close() })
	return server
}

func csvRow(n int) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = "1"
	}
	return strings.Join(fields, ",")
}

func TestPingReflectsModelAvailability(t *testing.T) {
	server := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	server = newTestServer(t, true)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvocationsCSVToCSV(t *testing.T) {
	server := newTestServer(t, true)

	body := csvRow(20) + "\n" + csvRow(20) + "\n"
	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ContentTypeCSV, w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestInvocationsCSVToJSONEnvelope(t *testing.T) {
	server := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(csvRow(21)+"\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var envelope struct {
		Instances []struct {
			Features []float64 `json:"features"`
		} `json:"instances"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Instances, 1)
	// Labeled input: label first, then the selected features.
	assert.Equal(t, float64(1), envelope.Instances[0].Features[0])
}

func TestInvocationsRejectsXML(t *testing.T) {
	server := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("<batch/>"))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestInvocationsRejectsWrongWidth(t *testing.T) {
	server := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(csvRow(7)+"\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeaturesEndpoint(t *testing.T) {
	server := newTestServer(t, true)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/features", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		SelectedFeatures []string `json:"selected_features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.SelectedFeatures, 4)
}

func TestRunsEndpointEmpty(t *testing.T) {
	server := newTestServer(t, true)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Runs []registry.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Empty(t, payload.Runs)
}
