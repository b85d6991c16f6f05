package responses

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mantle-cli/mantle/internal/httpx"
	"github.com/mantle-cli/mantle/providers/api"
)

const (
	responsesEndpoint = "/responses"
	modeName          = "responses"
)

// Mode implements api.Mode and api.BackgroundMode for the Responses API.
type Mode struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Compile-time interface checks.
var (
	_ api.Mode           = (*Mode)(nil)
	_ api.BackgroundMode = (*Mode)(nil)
)

// New creates a Responses mode instance with default values. Configure it
// with WithAPIKey and WithBaseURL before use.
func New() *Mode {
	return &Mode{client: &http.Client{}}
}

// Name returns "responses".
func (m *Mode) Name() string { return modeName }

// SupportsBackground reports background job support; always true for this surface.
func (m *Mode) SupportsBackground() bool { return true }

// SupportsCancel reports server-side cancel support; always true for this surface.
func (m *Mode) SupportsCancel() bool { return true }

// WithAPIKey sets the API key for the mode.
func (m *Mode) WithAPIKey(apiKey string) api.Mode {
	m.apiKey = apiKey
	return m
}

// WithBaseURL sets the base URL for API requests.
func (m *Mode) WithBaseURL(baseURL string) api.Mode {
	m.baseURL = baseURL
	return m
}

// WithHTTPClient sets a custom HTTP client.
func (m *Mode) WithHTTPClient(httpClient *http.Client) api.Mode {
	m.client = httpClient
	return m
}

// Send implements the synchronous path: it blocks until the full response
// body is received, then extracts the assistant text and response id.
func (m *Mode) Send(ctx context.Context, request api.Request) (*api.Reply, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	wire := requestToWire(request)
	resp, err := httpx.PostJSON[responseBody](ctx, m.client, m.baseURL+responsesEndpoint, m.apiKey, wire)
	if err != nil {
		return nil, err
	}

	if resp.Status == statusFailed {
		return nil, fmt.Errorf("response %s failed: %s", resp.ID, resp.errorMessage())
	}

	return replyFromWire(*resp), nil
}
