package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileWithEnvOverride(t *testing.T) {
	body := `
http:
  port: 9000
paths:
  data_dir: /data/train
  model_dir: /models
schema:
  features: 100
  label: y
store:
  backend: local
  local_dir: /objects
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FM_MODEL_DIR", "/opt/model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.HTTP.Port)
	}
	if cfg.Paths.ModelDir != "/opt/model" {
		t.Fatalf("model dir = %q, want env override", cfg.Paths.ModelDir)
	}
	if cfg.Paths.DataDir != "/data/train" {
		t.Fatalf("data dir = %q", cfg.Paths.DataDir)
	}
	if cfg.Selection.MutualInfoK != 10 {
		t.Fatalf("mutual info k = %d, want default 10", cfg.Selection.MutualInfoK)
	}

	schema, err := cfg.TabularSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Width() != 100 || schema.LabelName != "y" {
		t.Fatalf("unexpected schema: %d features, label %q", schema.Width(), schema.LabelName)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Schema.Features != 100 {
		t.Fatalf("features = %d, want 100", cfg.Schema.Features)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	body := "store:\n  backend: ftp\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}
