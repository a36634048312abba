package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"teamflow/internal/planner"
	"teamflow/pkg/circuitbreaker"
	"teamflow/pkg/metrics"
)

// Client talks to the external text-completion service. It implements
// planner.CompletionClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second // generation calls are slow
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
	}
}

type completionResponse struct {
	Output string `json:"output"`
}

// Complete sends one completion request and returns the raw text response.
func (c *Client) Complete(ctx context.Context, req planner.CompletionRequest) (string, error) {
	var output string

	start := time.Now()
	err := c.breaker.Execute(func() error {
		var callErr error
		output, callErr = c.doCall(ctx, req)
		return callErr
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordCompletionCallLatency(req.FunctionName, status, time.Since(start))

	return output, err
}

func (c *Client) doCall(ctx context.Context, req planner.CompletionRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/complete", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call completion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		// retryable
		return "", fmt.Errorf("completion service 5xx: %d", resp.StatusCode)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("completion service error: %d", resp.StatusCode)
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	return cr.Output, nil
}
