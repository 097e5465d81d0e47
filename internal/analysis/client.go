// Package analysis talks to the external narrative/technical analysis
// collaborator: submitting tasks, polling for completion, and validating the
// loosely structured results into typed stage outputs.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ErrUnavailable indicates the analysis collaborator is unreachable or did
// not finish in time. Callers fall back to the local heuristics.
var ErrUnavailable = errors.New("analysis collaborator unavailable")

// ErrTaskFailed indicates the collaborator reported a failed job.
var ErrTaskFailed = errors.New("analysis task failed")

// Task types accepted by the collaborator.
const (
	TaskEmotional = "emotional_analysis"
	TaskTechnical = "technical_analysis"
	TaskBreakdown = "breakdown_analysis"
)

// Job status values.
const (
	StatusStarted    = "started"
	StatusFallback   = "fallback"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultPollInterval = 250 * time.Millisecond
	maxPollInterval     = 2 * time.Second
)

// Config holds collaborator client settings.
type Config struct {
	BaseURL      string        `yaml:"base_url" env:"ANALYSIS_BASE_URL"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Client is the HTTP client for the analysis collaborator.
type Client struct {
	baseURL      string
	timeout      time.Duration
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewClient creates a collaborator client. Zero-valued timeouts get defaults.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		timeout:      timeout,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	RequestID string         `json:"request_id"`
	Text      string         `json:"text"`
	TaskType  string         `json:"task_type"`
	Context   map[string]any `json:"context"`
}

// SubmitResponse is the collaborator's answer to a task submission. When
// Status is "fallback" the result is populated synchronously and no polling
// is needed.
type SubmitResponse struct {
	JobID  string          `json:"job_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// StatusResponse is one poll of a submitted job.
type StatusResponse struct {
	JobID  string          `json:"job_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Submit sends a task to the collaborator. The request carries a unique id so
// concurrently in-flight submissions never collide.
func (c *Client) Submit(ctx context.Context, text, taskType string, taskContext map[string]any) (*SubmitResponse, error) {
	req := submitRequest{
		RequestID: uuid.NewString(),
		Text:      text,
		TaskType:  taskType,
		Context:   taskContext,
	}

	var resp SubmitResponse
	if err := c.post(ctx, "/analyze", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStatus polls one job.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/analyze/"+jobID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Run submits a task and waits for its result: synchronous when the
// collaborator answers with a fallback result, otherwise polled with a rate
// limit and growing interval until completion or the client timeout. Timeout
// and transport errors surface as ErrUnavailable so the pipeline can take its
// local fallback path.
func (c *Client) Run(ctx context.Context, text, taskType string, taskContext map[string]any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	submitted, err := c.Submit(ctx, text, taskType, taskContext)
	if err != nil {
		return nil, err
	}

	if len(submitted.Result) > 0 &&
		(submitted.Status == StatusFallback || submitted.Status == StatusCompleted) {
		return submitted.Result, nil
	}

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	interval := c.pollInterval

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		status, err := c.GetStatus(ctx, submitted.JobID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case StatusCompleted:
			if len(status.Result) == 0 {
				return nil, fmt.Errorf("%w: completed without result", ErrTaskFailed)
			}
			return status.Result, nil
		case StatusFailed:
			return nil, fmt.Errorf("%w: %s", ErrTaskFailed, status.Error)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		case <-time.After(interval):
		}
		interval *= 2
		if interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, respPtr any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, respPtr)
}

func (c *Client) get(ctx context.Context, path string, respPtr any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(httpReq, respPtr)
}

// do executes the request and decodes the body, retrying once with tolerant
// extraction when the body is not clean JSON.
func (c *Client) do(req *http.Request, respPtr any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if err := json.Unmarshal(body, respPtr); err == nil {
		return nil
	}

	extracted, ok := ExtractJSONObject(string(body))
	if !ok {
		return fmt.Errorf("%w: malformed response", ErrUnavailable)
	}
	if err := json.Unmarshal([]byte(extracted), respPtr); err != nil {
		return fmt.Errorf("%w: malformed response: %w", ErrUnavailable, err)
	}
	return nil
}
