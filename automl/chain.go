package automl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// PipelineModel is a serial inference chain: containers execute in order per
// request, each consuming the previous stage's output. The chain's overall
// accept type is whatever the last stage produces.
type PipelineModel struct {
	Name       string                `json:"name"`
	Containers []ContainerDefinition `json:"containers"`
}

// ComposeChain places the feature-selector container in front of the
// candidate's processing and model containers.
func ComposeChain(name string, selector ContainerDefinition, candidate *Candidate) (*PipelineModel, error) {
	if name == "" {
		return nil, errors.New("pipeline name is required")
	}
	if candidate == nil || len(candidate.Containers) != 2 {
		return nil, errors.New("candidate must provide a processing and a model container")
	}

	chain := &PipelineModel{
		Name:       name,
		Containers: append([]ContainerDefinition{selector}, candidate.Containers...),
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	return chain, nil
}

// Validate checks that each stage's output content type is accepted by the
// stage after it.
func (p *PipelineModel) Validate() error {
	if len(p.Containers) == 0 {
		return errors.New("pipeline has no containers")
	}
	for i, c := range p.Containers {
		if c.Image == "" {
			return fmt.Errorf("container %d has no image", i)
		}
		if c.Produces == "" {
			return fmt.Errorf("container %d declares no output content type", i)
		}
	}
	for i := 0; i < len(p.Containers)-1; i++ {
		produced := p.Containers[i].Produces
		next := p.Containers[i+1]
		if !accepts(next, produced) {
			return fmt.Errorf("container %d produces %q which container %d does not accept", i, produced, i+1)
		}
	}
	return nil
}

// Accept returns the content type the chain emits, decided by the last stage.
func (p *PipelineModel) Accept() string {
	if len(p.Containers) == 0 {
		return ""
	}
	return p.Containers[len(p.Containers)-1].Produces
}

// WriteSpec persists the deployment spec as JSON.
func (p *PipelineModel) WriteSpec(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func accepts(c ContainerDefinition, contentType string) bool {
	for _, accepted := range c.Accepts {
		if accepted == contentType || accepted == "*/*" {
			return true
		}
	}
	return false
}
