package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/mantle-cli/mantle/providers/api"
)

/*
	FAKE MODES
*/

// fakeMode is a scriptable api.Mode without background support.
type fakeMode struct {
	name       string
	sendFunc   func(ctx context.Context, request api.Request) (*api.Reply, error)
	streamFunc func(ctx context.Context, request api.Request) (*api.ReplyStream, error)
}

func (f *fakeMode) Name() string { return f.name }

func (f *fakeMode) Send(ctx context.Context, request api.Request) (*api.Reply, error) {
	return f.sendFunc(ctx, request)
}

func (f *fakeMode) Stream(ctx context.Context, request api.Request) (*api.ReplyStream, error) {
	return f.streamFunc(ctx, request)
}

func (f *fakeMode) SupportsBackground() bool             { return false }
func (f *fakeMode) SupportsCancel() bool                 { return false }
func (f *fakeMode) WithAPIKey(string) api.Mode           { return f }
func (f *fakeMode) WithBaseURL(string) api.Mode          { return f }
func (f *fakeMode) WithHTTPClient(*http.Client) api.Mode { return f }

// eventStream builds a ReplyStream from a fixed event script. A non-nil
// failWith yields an error after the scripted events.
func eventStream(events []api.StreamEvent, failWith error) *api.ReplyStream {
	return api.NewReplyStream(func(yield func(api.StreamEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
		if failWith != nil {
			yield(api.StreamEvent{Type: api.StreamEventError, Error: failWith.Error()}, failWith)
		}
	})
}

/*
	TESTS
*/

func TestRunTurnSyncAppliesStateOnce(t *testing.T) {
	mode := &fakeMode{
		name: "completions",
		sendFunc: func(ctx context.Context, request api.Request) (*api.Reply, error) {
			return &api.Reply{Text: "Hello!"}, nil
		},
	}
	transcript := NewTranscript()

	sess, err := New(mode, transcript, Options{Model: "gpt-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var emitted string
	reply, err := sess.RunTurn(context.Background(), "Hi", func(chunk string) { emitted += chunk })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Text != "Hello!" {
		t.Errorf("expected reply text 'Hello!', got %q", reply.Text)
	}
	if emitted != "Hello!" {
		t.Errorf("expected full text emitted once, got %q", emitted)
	}

	history := transcript.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries after one turn, got %d", len(history))
	}
	if history[0].Text != "Hi" || history[1].Text != "Hello!" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestRunTurnFailureLeavesStateUnchanged(t *testing.T) {
	mode := &fakeMode{
		name: "completions",
		sendFunc: func(ctx context.Context, request api.Request) (*api.Reply, error) {
			return nil, &api.TransportError{Kind: api.TransportConnection, Err: errors.New("boom")}
		},
	}
	transcript := NewTranscript()
	transcript.Apply(api.Turn{Role: api.RoleUser, Text: "earlier"}, &api.Reply{Text: "fine"})

	sess, err := New(mode, transcript, Options{Model: "gpt-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = sess.RunTurn(context.Background(), "Hi", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}

	if len(transcript.History()) != 2 {
		t.Error("failed turn must not be applied to state")
	}
}

func TestRunTurnStreamingAccumulatesDeltas(t *testing.T) {
	mode := &fakeMode{
		name: "responses",
		streamFunc: func(ctx context.Context, request api.Request) (*api.ReplyStream, error) {
			return eventStream([]api.StreamEvent{
				{Type: api.StreamEventDelta, Delta: "Hello"},
				{Type: api.StreamEventDelta, Delta: " world"},
				{Type: api.StreamEventDone, ResponseID: "r1"},
			}, nil), nil
		},
	}
	thread := NewThread()

	sess, err := New(mode, thread, Options{Model: "gpt-test", Stream: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var emitted string
	reply, err := sess.RunTurn(context.Background(), "Hi", func(chunk string) { emitted += chunk })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Text != "Hello world" {
		t.Errorf("expected accumulated 'Hello world', got %q", reply.Text)
	}
	if emitted != "Hello world" {
		t.Errorf("expected incremental emission 'Hello world', got %q", emitted)
	}
	if thread.PreviousResponseID() != "r1" {
		t.Errorf("expected previous response id 'r1', got %q", thread.PreviousResponseID())
	}
}

func TestRunTurnStreamingErrorDiscardsPartialText(t *testing.T) {
	mode := &fakeMode{
		name: "responses",
		streamFunc: func(ctx context.Context, request api.Request) (*api.ReplyStream, error) {
			return eventStream([]api.StreamEvent{
				{Type: api.StreamEventDelta, Delta: "Hel"},
			}, errors.New("stream dropped")), nil
		},
	}
	thread := NewThread()

	sess, err := New(mode, thread, Options{Model: "gpt-test", Stream: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := sess.RunTurn(context.Background(), "Hi", nil)
	if err == nil {
		t.Fatal("expected mid-stream error")
	}
	if reply != nil {
		t.Errorf("expected no reply on stream failure, got %+v", reply)
	}
	if thread.PreviousResponseID() != "" {
		t.Error("failed streaming turn must not touch state")
	}
}

func TestResponsesScenarioChainsIDs(t *testing.T) {
	// Scenario: "Hi" with no prior id -> r1; "How are you?" carries r1.
	var seenPrevIDs []string
	mode := &fakeMode{
		name: "responses",
		sendFunc: func(ctx context.Context, request api.Request) (*api.Reply, error) {
			seenPrevIDs = append(seenPrevIDs, request.PreviousResponseID)
			return &api.Reply{ID: "r1", Text: "Hello!"}, nil
		},
	}
	thread := NewThread()

	sess, err := New(mode, thread, Options{Model: "gpt-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = sess.RunTurn(context.Background(), "Hi", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thread.PreviousResponseID() != "r1" {
		t.Fatalf("expected state to hold 'r1', got %q", thread.PreviousResponseID())
	}

	if _, err = sess.RunTurn(context.Background(), "How are you?", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seenPrevIDs) != 2 || seenPrevIDs[0] != "" || seenPrevIDs[1] != "r1" {
		t.Errorf("expected previous ids [\"\", \"r1\"], got %v", seenPrevIDs)
	}
}

func TestCancelOnStatelessModeIsUnsupported(t *testing.T) {
	mode := &fakeMode{name: "completions"}
	transcript := NewTranscript()
	transcript.Apply(api.Turn{Role: api.RoleUser, Text: "Hi"}, &api.Reply{Text: "Hello!"})

	sess, err := New(mode, transcript, Options{Model: "gpt-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = sess.Cancel(context.Background(), "j1")
	if !errors.Is(err, api.ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}

	var unsupported *api.UnsupportedOperationError
	if !errors.As(err, &unsupported) || unsupported.Mode != "completions" {
		t.Errorf("error must name the active mode, got %v", err)
	}

	if len(transcript.History()) != 2 {
		t.Error("unsupported cancel must leave state unchanged")
	}
}

func TestNewRejectsBackgroundOnUnsupportedMode(t *testing.T) {
	mode := &fakeMode{name: "completions"}

	_, err := New(mode, NewTranscript(), Options{Model: "gpt-test", Background: true})
	if !errors.Is(err, api.ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestNewRequiresModel(t *testing.T) {
	if _, err := New(&fakeMode{name: "completions"}, NewTranscript(), Options{}); err == nil {
		t.Error("expected error for missing model")
	}
}
