package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"featuremill/config"
	"featuremill/logging"
	"featuremill/registry"
	"featuremill/serving"
	"featuremill/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := registry.InitDB(cfg.Registry.Path); err != nil {
		logger.Fatal("registry init failed", zap.Error(err))
	}
	defer registry.Close()

	objects, err := buildStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("object store init failed", zap.Error(err))
	}

	server, err := serving.NewServer(cfg, logger, objects)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// loadConfig falls back to env-and-defaults when the default config file is
// absent, so the container image runs without one.
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
