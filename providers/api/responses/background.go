package responses

import (
	"context"
	"fmt"

	"github.com/mantle-cli/mantle/internal/httpx"
	"github.com/mantle-cli/mantle/providers/api"
)

// Submit dispatches a request for background execution and returns the job
// handle immediately. The server answers with the response id and an initial
// status, normally queued.
func (m *Mode) Submit(ctx context.Context, request api.Request) (*api.Job, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	request.Background = true
	request.Stream = false
	wire := requestToWire(request)

	resp, err := httpx.PostJSON[responseBody](ctx, m.client, m.baseURL+responsesEndpoint, m.apiKey, wire)
	if err != nil {
		return nil, err
	}

	return jobFromWire(*resp), nil
}

// Poll retrieves the current state of a background job by response id. On
// completed the returned job carries the decoded assistant reply.
func (m *Mode) Poll(ctx context.Context, jobID string) (*api.Job, error) {
	resp, err := httpx.GetJSON[responseBody](ctx, m.client, m.baseURL+responsesEndpoint+"/"+jobID, m.apiKey)
	if err != nil {
		return nil, err
	}

	return jobFromWire(*resp), nil
}

// Cancel asks the server to stop a background job. Best effort: if the job
// already reached a terminal state the returned status reflects it, and no
// guarantee is made that server-side processing stops immediately.
func (m *Mode) Cancel(ctx context.Context, jobID string) (*api.Job, error) {
	resp, err := httpx.PostJSON[responseBody](ctx, m.client, m.baseURL+responsesEndpoint+"/"+jobID+"/cancel", m.apiKey, struct{}{})
	if err != nil {
		return nil, err
	}

	return jobFromWire(*resp), nil
}
