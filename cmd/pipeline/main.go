// Command pipeline submits an AutoML job over a reduced dataset, waits for
// the search to finish, and composes the winning candidate's containers
// behind the feature selector into a serial inference chain spec.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"featuremill/automl"
	"featuremill/config"
	"featuremill/registry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	jobName := flag.String("job", "", "automl job name")
	inputURL := flag.String("input", "", "reduced dataset location")
	outputURL := flag.String("output", "", "automl output location")
	maxCandidates := flag.Int("max_candidates", 20, "candidate budget for the search")
	selectorImage := flag.String("selector_image", "", "feature selector container image")
	selectorModelData := flag.String("selector_model_data", "", "feature selector model artifact location")
	specPath := flag.String("spec", "pipeline.json", "deployment spec output path")
	flag.Parse()

	if *jobName == "" || *inputURL == "" || *selectorImage == "" {
		log.Fatal("job, input, and selector_image are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.AutoML.Endpoint == "" {
		log.Fatal("automl.endpoint is not configured")
	}

	if err := registry.InitDB(cfg.Registry.Path); err != nil {
		log.Fatalf("failed to init registry: %v", err)
	}
	defer registry.Close()

	client, err := automl.NewClient(cfg.AutoML.Endpoint, cfg.AutoML.APIKey, 30*time.Second)
	if err != nil {
		log.Fatalf("failed to build automl client: %v", err)
	}

	ctx := context.Background()
	status, err := client.SubmitJob(ctx, automl.JobConfig{
		Name:          *jobName,
		InputDataURL:  *inputURL,
		OutputURL:     *outputURL,
		TargetColumn:  cfg.Schema.Label,
		ProblemType:   "Regression",
		MaxCandidates: *maxCandidates,
	})
	if err != nil {
		log.Fatalf("job submission failed: %v", err)
	}
	recordJob(*status)
	log.Printf("job %s submitted, state %s", status.Name, status.State)

	interval := time.Duration(cfg.AutoML.PollIntervalSeconds) * time.Second
	final, err := client.Poll(ctx, *jobName, interval)
	if err != nil {
		log.Fatalf("polling failed: %v", err)
	}
	recordJob(*final)
	if final.State != automl.JobCompleted {
		log.Fatalf("job %s ended %s: %s", final.Name, final.State, final.FailureReason)
	}

	candidate, err := client.BestCandidate(ctx, *jobName)
	if err != nil {
		log.Fatalf("best candidate fetch failed: %v", err)
	}
	log.Printf("best candidate %s (score %.4f)", candidate.Name, candidate.Score)

	selector := automl.ContainerDefinition{
		Image:        *selectorImage,
		ModelDataURL: *selectorModelData,
		Environment:  map[string]string{"FM_MODEL_DIR": "/opt/ml/model"},
		Accepts:      []string{"text/csv"},
		Produces:     "text/csv",
	}
	chain, err := automl.ComposeChain(*jobName+"-pipeline", selector, candidate)
	if err != nil {
		log.Fatalf("chain composition failed: %v", err)
	}
	if err := chain.WriteSpec(*specPath); err != nil {
		log.Fatalf("failed to write spec: %v", err)
	}
	log.Printf("pipeline spec written to %s (accept %s)", *specPath, chain.Accept())
}

func recordJob(status automl.JobStatus) {
	err := registry.SaveJob(registry.Job{
		Name:          status.Name,
		State:         string(status.State),
		BestCandidate: status.BestCandidate,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		log.Printf("job not recorded: %v", err)
	}
}

func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Load("")
	}
	return config.Load(path)
}
