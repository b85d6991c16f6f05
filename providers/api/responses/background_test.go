package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mantle-cli/mantle/providers/api"
)

func TestSubmitReturnsQueuedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal("failed to decode request body: " + err.Error())
		}
		if body["background"] != true {
			t.Error("submit must set background=true on the wire")
		}
		if _, present := body["stream"]; present {
			t.Error("submit must not request streaming")
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "j1",
			"object": "response",
			"status": "queued",
		})
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*Mode)

	job, err := mode.Submit(context.Background(), api.Request{
		Model: "gpt-test",
		Turns: []api.Turn{{Role: api.RoleUser, Text: "think hard"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.ID != "j1" {
		t.Errorf("expected job id 'j1', got %q", job.ID)
	}
	if job.Status != api.JobQueued {
		t.Errorf("expected status queued, got %s", job.Status)
	}
	if job.Result != nil {
		t.Error("queued job must not expose a result")
	}
}

func TestPollProgressesToCompletedPayload(t *testing.T) {
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("poll must use GET, got %s", r.Method)
		}
		if r.URL.Path != "/responses/j1" {
			t.Errorf("unexpected poll path %s", r.URL.Path)
		}

		switch polls.Add(1) {
		case 1, 2:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "j1", "status": "in_progress"})
		default:
			_ = json.NewEncoder(w).Encode(completedBody("j1", "the answer"))
		}
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*Mode)
	ctx := context.Background()

	// Two in-progress polls: no result visible yet.
	for range 2 {
		job, err := mode.Poll(ctx, "j1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Status != api.JobInProgress {
			t.Errorf("expected in_progress, got %s", job.Status)
		}
		if job.Result != nil {
			t.Error("result must not be exposed before completed")
		}
	}

	job, err := mode.Poll(ctx, "j1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != api.JobCompleted {
		t.Fatalf("expected completed, got %s", job.Status)
	}
	if job.Result == nil || job.Result.Text != "the answer" {
		t.Errorf("expected extracted result text, got %+v", job.Result)
	}
}

func TestPollSurfacesFailureDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "j2",
			"status": "failed",
			"error":  map[string]interface{}{"message": "quota exceeded"},
		})
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*Mode)

	job, err := mode.Poll(context.Background(), "j2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != api.JobFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
	if job.Error != "quota exceeded" {
		t.Errorf("expected server error detail, got %q", job.Error)
	}
}

func TestCancelHitsCancelEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("cancel must use POST, got %s", r.Method)
		}
		if r.URL.Path != "/responses/j1/cancel" {
			t.Errorf("unexpected cancel path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "j1", "status": "cancelled"})
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*Mode)

	job, err := mode.Cancel(context.Background(), "j1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != api.JobCancelled {
		t.Errorf("expected cancelled, got %s", job.Status)
	}
}
