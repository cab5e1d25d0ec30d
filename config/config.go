// Package config loads the yaml configuration shared by the serving and
// training binaries. Hosting runtimes inject directories through environment
// variables, which override the file; the resolved Config is passed by value
// so nothing depends on process-wide state.
package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"featuremill/store"
	"featuremill/tabular"
)

type Config struct {
	HTTP struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		RateLimit      float64  `yaml:"rate_limit"`
		MaxBodyBytes   int64    `yaml:"max_body_bytes"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`

	Paths struct {
		DataDir   string `yaml:"data_dir"`
		ModelDir  string `yaml:"model_dir"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"paths"`

	Schema struct {
		Features int    `yaml:"features"`
		Prefix   string `yaml:"prefix"`
		Label    string `yaml:"label"`
	} `yaml:"schema"`

	Selection struct {
		RFETarget   int `yaml:"rfe_target"`
		FTestK      int `yaml:"f_test_k"`
		MutualInfoK int `yaml:"mutual_info_k"`
		Bins        int `yaml:"bins"`
	} `yaml:"selection"`

	Registry struct {
		Path string `yaml:"path"`
	} `yaml:"registry"`

	Store struct {
		Backend  string `yaml:"backend"` // local, s3, minio, or empty to disable
		LocalDir string `yaml:"local_dir"`
		S3       struct {
			Bucket string `yaml:"bucket"`
			Prefix string `yaml:"prefix"`
			Region string `yaml:"region"`
		} `yaml:"s3"`
		Minio store.MinioConfig `yaml:"minio"`
	} `yaml:"store"`

	AutoML struct {
		Endpoint            string `yaml:"endpoint"`
		APIKey              string `yaml:"api_key"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	} `yaml:"automl"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Load reads path, applies environment overrides, and fills defaults.
// An empty path yields a config built from env and defaults alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// TabularSchema builds the dataset schema described by the config.
func (c Config) TabularSchema() (tabular.Schema, error) {
	return tabular.NewSchema(c.Schema.Prefix, c.Schema.Features, c.Schema.Label)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FM_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("FM_MODEL_DIR"); v != "" {
		c.Paths.ModelDir = v
	}
	if v := os.Getenv("FM_OUTPUT_DIR"); v != "" {
		c.Paths.OutputDir = v
	}
	if v := os.Getenv("FM_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = port
		}
	}
	if v := os.Getenv("FM_AUTOML_ENDPOINT"); v != "" {
		c.AutoML.Endpoint = v
	}
	if v := os.Getenv("FM_AUTOML_API_KEY"); v != "" {
		c.AutoML.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 30
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 50
	}
	if c.HTTP.MaxBodyBytes == 0 {
		c.HTTP.MaxBodyBytes = 32 << 20
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"*"}
	}
	if c.Schema.Features == 0 {
		c.Schema.Features = 100
	}
	if c.Schema.Prefix == "" {
		c.Schema.Prefix = "x"
	}
	if c.Schema.Label == "" {
		c.Schema.Label = "y"
	}
	if c.Selection.FTestK == 0 {
		c.Selection.FTestK = 30
	}
	if c.Selection.MutualInfoK == 0 {
		c.Selection.MutualInfoK = 10
	}
	if c.Registry.Path == "" {
		c.Registry.Path = "featuremill.db"
	}
	if c.AutoML.PollIntervalSeconds == 0 {
		c.AutoML.PollIntervalSeconds = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c Config) validate() error {
	if c.Schema.Features <= 0 {
		return errors.New("schema.features must be positive")
	}
	switch c.Store.Backend {
	case "", "local", "s3", "minio":
	default:
		return errors.New("store.backend must be local, s3, or minio")
	}
	return nil
}
