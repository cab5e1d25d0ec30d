package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"featuremill/config"
	"featuremill/registry"
	"featuremill/store"
	"featuremill/tabular"
	"featuremill/training"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dataDir := flag.String("data_dir", "", "directory of training csv files")
	modelDir := flag.String("model_dir", "", "model output directory")
	outputDir := flag.String("output_dir", "", "auxiliary output directory")
	synthetic := flag.Int("synthetic", 0, "generate this many synthetic rows into data_dir before fitting")
	informative := flag.Int("informative", 10, "informative feature count for synthetic data")
	noise := flag.Float64("noise", 0.5, "noise level for synthetic data")
	seed := flag.Int64("seed", 42, "random seed for synthetic data")
	upload := flag.Bool("upload", false, "upload artifacts to the configured object store")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *modelDir != "" {
		cfg.Paths.ModelDir = *modelDir
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}
	if cfg.Paths.DataDir == "" || cfg.Paths.ModelDir == "" {
		log.Fatal("data_dir and model_dir are required")
	}

	schema, err := cfg.TabularSchema()
	if err != nil {
		log.Fatalf("invalid schema: %v", err)
	}

	if *synthetic > 0 {
		if err := generateSynthetic(cfg.Paths.DataDir, schema, *synthetic, *informative, *noise, *seed); err != nil {
			log.Fatalf("failed to generate synthetic data: %v", err)
		}
		log.Printf("generated %d synthetic rows in %s", *synthetic, cfg.Paths.DataDir)
	}

	if err := registry.InitDB(cfg.Registry.Path); err != nil {
		log.Fatalf("failed to init registry: %v", err)
	}
	defer registry.Close()

	ctx := context.Background()
	runner := &training.Runner{}
	if *upload {
		objects, err := buildStore(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to init object store: %v", err)
		}
		if objects == nil {
			log.Fatal("upload requested but no store backend configured")
		}
		runner.Store = objects
	}

	result, err := runner.Fit(ctx, training.Config{
		DataDir:     cfg.Paths.DataDir,
		ModelDir:    cfg.Paths.ModelDir,
		OutputDir:   cfg.Paths.OutputDir,
		Schema:      schema,
		RFETarget:   cfg.Selection.RFETarget,
		FTestK:      cfg.Selection.FTestK,
		MutualInfoK: cfg.Selection.MutualInfoK,
		Bins:        cfg.Selection.Bins,
	})
	if err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	log.Printf("run %s: %d rows, %d -> %d features", result.RunID, result.Rows, result.Features, len(result.SelectedFeatures))
	for _, name := range result.SelectedFeatures {
		fmt.Println(name)
	}
	fmt.Printf("model saved to %s\n", result.ModelDir)
}

func generateSynthetic(dir string, schema tabular.Schema, rows, informative int, noise float64, seed int64) error {
	ds, err := tabular.Synthetic(schema, rows, informative, noise, seed)
	if err != nil {
		return err
	}
	raw := make([][]float64, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		raw[i] = ds.Row(i)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(dir, "train.csv"))
	if err != nil {
		return err
	}
	if err := tabular.WriteCSV(file, raw); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Load("")
	}
	return config.Load(path)
}

func buildStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "local":
		return store.NewLocalStore(cfg.Store.LocalDir)
	case "s3":
		return store.NewS3Store(ctx, cfg.Store.S3.Bucket, cfg.Store.S3.Prefix, cfg.Store.S3.Region)
	case "minio":
		return store.NewMinioStore(ctx, cfg.Store.Minio)
	default:
		return nil, nil
	}
}
