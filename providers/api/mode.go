package api

import (
	"context"
	"net/http"
)

// Mode is the core interface every API surface implementation must satisfy.
// It covers the full lifecycle of a single turn: request construction from the
// surface-agnostic [Request], dispatch, and response interpretation.
// Use [BackgroundMode] in addition when the surface supports background jobs.
type Mode interface {
	// Name returns the human-readable mode name ("responses" or
	// "completions"), used in status output and error messages.
	Name() string

	// Send dispatches a turn synchronously and blocks until the full reply
	// body is received and decoded. Returns a *TransportError if the call
	// fails, the context is cancelled, or the response cannot be decoded.
	Send(ctx context.Context, request Request) (*Reply, error)

	// Stream dispatches a turn with streaming enabled and returns a
	// ReplyStream that yields incremental deltas as SSE events arrive.
	// Pre-stream errors (auth, bad request, network) are returned as a normal
	// error. Mid-stream errors are yielded through the iterator.
	Stream(ctx context.Context, request Request) (*ReplyStream, error)

	// SupportsBackground reports whether background execution is available.
	SupportsBackground() bool

	// SupportsCancel reports whether in-flight work can be cancelled
	// server-side.
	SupportsCancel() bool

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Mode

	// WithBaseURL overrides the base URL for API requests.
	WithBaseURL(baseURL string) Mode

	// WithHTTPClient sets the HTTP client used for outbound requests.
	WithHTTPClient(httpClient *http.Client) Mode
}

// BackgroundMode is an optional interface implemented by modes that support
// asynchronous background execution. Callers detect background support via
// type assertion: mode.(BackgroundMode). A mode that does not implement this
// interface must also report false from SupportsBackground.
type BackgroundMode interface {
	Mode

	// Submit dispatches a turn for background execution and returns the job
	// handle immediately, typically with status queued.
	Submit(ctx context.Context, request Request) (*Job, error)

	// Poll refreshes the job's status by id. On completed the returned Job
	// carries the decoded Result; on failed it carries the server-reported
	// Error detail.
	Poll(ctx context.Context, jobID string) (*Job, error)

	// Cancel asks the server to stop the job. Best effort: the server may
	// already have finished, in which case the returned status reflects the
	// actual terminal state.
	Cancel(ctx context.Context, jobID string) (*Job, error)
}
