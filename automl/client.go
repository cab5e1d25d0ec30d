package automl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the AutoML service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// SubmitJob submits a job and returns its initial status.
func (c *Client) SubmitJob(ctx context.Context, cfg JobConfig) (*JobStatus, error) {
	if cfg.Name == "" {
		return nil, errors.New("job name is required")
	}
	if cfg.InputDataURL == "" {
		return nil, errors.New("input data url is required")
	}
	var status JobStatus
	if err := c.do(ctx, http.MethodPost, "/v1/jobs", cfg, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DescribeJob fetches the current status of a job.
func (c *Client) DescribeJob(ctx context.Context, name string) (*JobStatus, error) {
	if name == "" {
		return nil, errors.New("job name is required")
	}
	var status JobStatus
	if err := c.do(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(name), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// BestCandidate fetches the best pipeline of a completed job.
func (c *Client) BestCandidate(ctx context.Context, name string) (*Candidate, error) {
	if name == "" {
		return nil, errors.New("job name is required")
	}
	var candidate Candidate
	if err := c.do(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(name)+"/best-candidate", nil, &candidate); err != nil {
		return nil, err
	}
	if len(candidate.Containers) != 2 {
		return nil, fmt.Errorf("candidate %s has %d containers, want 2", candidate.Name, len(candidate.Containers))
	}
	return &candidate, nil
}

// Poll describes the job every interval until it reaches a terminal state or
// the context is cancelled.
func (c *Client) Poll(ctx context.Context, name string, interval time.Duration) (*JobStatus, error) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.DescribeJob(ctx, name)
		if err != nil {
			return nil, err
		}
		if status.State.Terminal() {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("automl service: %s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(payload))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
