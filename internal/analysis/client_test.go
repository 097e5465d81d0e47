package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/script-breakdown/internal/analysis"
)

func newTestClient(t *testing.T, handler http.Handler) (*analysis.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return analysis.NewClient(analysis.Config{
		BaseURL:      server.URL,
		Timeout:      2 * time.Second,
		PollInterval: 5 * time.Millisecond,
	}), server
}

func TestRun_SynchronousFallbackResult(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			polls.Add(1)
			return
		}
		_ = json.NewEncoder(w).Encode(analysis.SubmitResponse{
			JobID:  "job-1",
			Status: analysis.StatusFallback,
			Result: json.RawMessage(`{"tone":"فرح"}`),
		})
	}))

	raw, err := client.Run(context.Background(), "نص", analysis.TaskEmotional, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	parsed, err := analysis.ParseEmotional(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Tone != "فرح" {
		t.Errorf("tone = %q", parsed.Tone)
	}
	if polls.Load() != 0 {
		t.Errorf("fallback result must not be polled, got %d polls", polls.Load())
	}
}

func TestRun_PollsUntilCompleted(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(analysis.SubmitResponse{JobID: "job-2", Status: analysis.StatusStarted})
			return
		}

		resp := analysis.StatusResponse{JobID: "job-2", Status: analysis.StatusProcessing}
		if polls.Add(1) >= 3 {
			resp.Status = analysis.StatusCompleted
			resp.Result = json.RawMessage(`{"is_valid":true}`)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	raw, err := client.Run(context.Background(), "نص", analysis.TaskTechnical, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	parsed, err := analysis.ParseTechnical(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.IsValid {
		t.Error("expected valid technical result")
	}
	if polls.Load() < 3 {
		t.Errorf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestRun_FailedJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(analysis.SubmitResponse{JobID: "job-3", Status: analysis.StatusPending})
			return
		}
		_ = json.NewEncoder(w).Encode(analysis.StatusResponse{
			JobID:  "job-3",
			Status: analysis.StatusFailed,
			Error:  "model overloaded",
		})
	}))

	_, err := client.Run(context.Background(), "نص", analysis.TaskEmotional, nil)
	if !errors.Is(err, analysis.ErrTaskFailed) {
		t.Fatalf("expected ErrTaskFailed, got %v", err)
	}
}

func TestRun_TransportErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := analysis.NewClient(analysis.Config{
		BaseURL: server.URL,
		Timeout: time.Second,
	})
	_, err := client.Run(context.Background(), "نص", analysis.TaskEmotional, nil)
	if !errors.Is(err, analysis.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRun_NonOKStatusIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Run(context.Background(), "نص", analysis.TaskEmotional, nil)
	if !errors.Is(err, analysis.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRun_ToleratesProseWrappedJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `Here is the analysis you asked for:` + "\n" +
			`{"job_id":"job-4","status":"fallback","result":{"tone":"حزن","audience_engagement":1.4}}` + "\n" +
			`Let me know if you need anything else.`
		fmt.Fprint(w, body)
	}))

	raw, err := client.Run(context.Background(), "نص", analysis.TaskEmotional, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	parsed, err := analysis.ParseEmotional(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Tone != "حزن" {
		t.Errorf("tone = %q", parsed.Tone)
	}
	if parsed.AudienceEngagement != 1.0 {
		t.Errorf("engagement = %v, want clamp to 1.0", parsed.AudienceEngagement)
	}
}

func TestRun_TimeoutIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(analysis.SubmitResponse{JobID: "job-5", Status: analysis.StatusStarted})
			return
		}
		_ = json.NewEncoder(w).Encode(analysis.StatusResponse{JobID: "job-5", Status: analysis.StatusProcessing})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Run(ctx, "نص", analysis.TaskEmotional, nil)
	if !errors.Is(err, analysis.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}
