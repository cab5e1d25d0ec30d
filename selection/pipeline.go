package selection

import (
	"errors"
	"fmt"

	"featuremill/tabular"
)

// Pipeline is an ordered composition of selection stages. Each stage fits on
// the columns surviving the previous stages; the pipeline keeps every stage's
// survivors as original column indices, so masks of different widths compose
// without ambiguity.
type Pipeline struct {
	stages   []Stage
	observer func(stage string, surviving int)
}

// OnStage registers a callback invoked after each stage fits, with the stage
// name and the surviving feature count. Used for progress reporting.
func (p *Pipeline) OnStage(fn func(stage string, surviving int)) {
	p.observer = fn
}

// NewPipeline composes stages in the given order.
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, errors.New("pipeline needs at least one stage")
	}
	return &Pipeline{stages: stages}, nil
}

// DefaultPipeline is the standard three-stage reduction: recursive
// elimination to half the features, F-test top 30, mutual-information top 10.
func DefaultPipeline() *Pipeline {
	return &Pipeline{stages: []Stage{
		&RFE{},
		&FTest{K: 30},
		&MutualInfo{K: 10},
	}}
}

// Fit runs every stage in sequence over the labeled dataset and returns the
// immutable fitted model.
func (p *Pipeline) Fit(ds *tabular.Dataset) (*Model, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, &tabular.DataError{Reason: "no training rows"}
	}
	if !ds.Labeled() {
		return nil, &tabular.DataError{Reason: "training data has no label column"}
	}
	if ds.Len() < 2 {
		return nil, &tabular.DimensionError{Got: ds.Len(), Want: 2, Reason: "too few training rows"}
	}

	schema := ds.Schema()
	X := ds.Features()
	y := ds.Labels()

	surviving := make([]int, schema.Width())
	for i := range surviving {
		surviving[i] = i
	}

	states := make([]StageState, 0, len(p.stages))
	for _, stage := range p.stages {
		sub := columns(X, surviving)
		mask, err := stage.Fit(sub, y)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if len(mask) != len(surviving) {
			return nil, &tabular.DimensionError{
				Got:    len(mask),
				Want:   len(surviving),
				Reason: "stage " + stage.Name() + " returned a mask for the wrong width",
			}
		}

		next := make([]int, 0, len(surviving))
		for i, keep := range mask {
			if keep {
				next = append(next, surviving[i])
			}
		}
		if len(next) == 0 {
			return nil, fmt.Errorf("stage %s eliminated every feature", stage.Name())
		}

		states = append(states, StageState{
			Name:       stage.Name(),
			InputWidth: len(surviving),
			Kept:       next,
		})
		surviving = next
		if p.observer != nil {
			p.observer(stage.Name(), len(surviving))
		}
	}

	names := make([]string, len(surviving))
	for i, idx := range surviving {
		names[i] = schema.FeatureNames[idx]
	}

	return &Model{
		Schema:           schema,
		Stages:           states,
		Selected:         surviving,
		SelectedFeatures: names,
	}, nil
}
