package responses

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mantle-cli/mantle/providers/api"
)

// writeSSE writes an SSE data line to the response writer and flushes.
func writeSSE(writer http.ResponseWriter, data string) {
	fmt.Fprintf(writer, "data: %s\n\n", data)
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func TestStreamAccumulatesDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"type":"response.output_text.delta","delta":"Hello"}`)
		writeSSE(writer, `{"type":"response.output_text.delta","delta":" world"}`)
		writeSSE(writer, `{"type":"response.completed","response":{"id":"r1","status":"completed","usage":{"input_tokens":2,"output_tokens":2,"total_tokens":4}}}`)
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	stream, err := mode.Stream(context.Background(), api.Request{
		Model: "gpt-test",
		Turns: []api.Turn{{Role: api.RoleUser, Text: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	reply, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	if reply.Text != "Hello world" {
		t.Errorf("expected text 'Hello world', got %q", reply.Text)
	}
	if reply.ID != "r1" {
		t.Errorf("expected response id 'r1', got %q", reply.ID)
	}
	if reply.Usage == nil || reply.Usage.TotalTokens != 4 {
		t.Errorf("expected usage from completed event, got %+v", reply.Usage)
	}
}

func TestStreamErrorEventDiscardsPartialText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"type":"response.output_text.delta","delta":"Hello"}`)
		writeSSE(writer, `{"type":"error","message":"overloaded"}`)
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	stream, err := mode.Stream(context.Background(), api.Request{
		Model: "gpt-test",
		Turns: []api.Turn{{Role: api.RoleUser, Text: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	reply, err := stream.Collect()
	if err == nil {
		t.Fatal("expected mid-stream error")
	}
	if reply != nil {
		t.Errorf("partial text must be discarded on error, got %+v", reply)
	}
}

func TestStreamYieldsBackgroundLifecycleMarkers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"type":"response.queued"}`)
		writeSSE(writer, `{"type":"response.in_progress"}`)
		writeSSE(writer, `{"type":"response.output_text.delta","delta":"done thinking"}`)
		writeSSE(writer, `{"type":"response.completed","response":{"id":"r7","status":"completed"}}`)
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	stream, err := mode.Stream(context.Background(), api.Request{
		Model:      "gpt-test",
		Turns:      []api.Turn{{Role: api.RoleUser, Text: "Hi"}},
		Background: true,
	})
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	var statuses []api.JobStatus
	var text string
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected iterator error: %v", iterErr)
		}
		switch event.Type {
		case api.StreamEventStatus:
			statuses = append(statuses, event.Status)
		case api.StreamEventDelta:
			text += event.Delta
		}
	}

	if len(statuses) != 2 || statuses[0] != api.JobQueued || statuses[1] != api.JobInProgress {
		t.Errorf("expected queued then in_progress markers, got %v", statuses)
	}
	if text != "done thinking" {
		t.Errorf("expected text 'done thinking', got %q", text)
	}
}

func TestStreamFailedEventSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		writer.WriteHeader(http.StatusOK)

		writeSSE(writer, `{"type":"response.failed","response":{"id":"r3","status":"failed","error":{"message":"model exploded"}}}`)
	}))
	defer server.Close()

	mode := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	stream, err := mode.Stream(context.Background(), api.Request{
		Model: "gpt-test",
		Turns: []api.Turn{{Role: api.RoleUser, Text: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Stream returned error: %v", err)
	}

	_, err = stream.Collect()
	if err == nil || err.Error() != "model exploded" {
		t.Errorf("expected server failure message, got %v", err)
	}
}
