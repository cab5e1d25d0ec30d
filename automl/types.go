// Package automl is a client for an external AutoML service. The service's
// search and training internals are opaque; this package only speaks its job
// submission, status, and best-candidate request/response contract, and
// composes the resulting inference containers into a serial chain.
package automl

// JobState is the lifecycle state reported by the service.
type JobState string

const (
	JobPending    JobState = "Pending"
	JobInProgress JobState = "InProgress"
	JobCompleted  JobState = "Completed"
	JobFailed     JobState = "Failed"
	JobStopped    JobState = "Stopped"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobStopped:
		return true
	}
	return false
}

// JobConfig describes an AutoML job over an already-reduced dataset.
type JobConfig struct {
	Name          string `json:"name"`
	InputDataURL  string `json:"input_data_url"`
	OutputURL     string `json:"output_url"`
	TargetColumn  string `json:"target_column"`
	ProblemType   string `json:"problem_type"`
	MaxCandidates int    `json:"max_candidates"`
}

// JobStatus is the service's view of a submitted job.
type JobStatus struct {
	Name          string   `json:"name"`
	State         JobState `json:"state"`
	FailureReason string   `json:"failure_reason,omitempty"`
	BestCandidate string   `json:"best_candidate,omitempty"`
}

// ContainerDefinition describes one deployable inference container produced
// by the service, including the content types it consumes and emits.
type ContainerDefinition struct {
	Image        string            `json:"image"`
	ModelDataURL string            `json:"model_data_url"`
	Environment  map[string]string `json:"environment,omitempty"`
	Accepts      []string          `json:"accepts"`
	Produces     string            `json:"produces"`
}

// Candidate is a full pipeline found by the search: a data-processing
// container followed by a model-inference container.
type Candidate struct {
	Name       string                `json:"name"`
	Score      float64               `json:"score"`
	Containers []ContainerDefinition `json:"containers"`
}
