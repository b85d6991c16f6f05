package completions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mantle-cli/mantle/internal/httpx"
	"github.com/mantle-cli/mantle/providers/api"
)

const (
	chatCompletionsEndpoint = "/chat/completions"
	modeName                = "completions"
)

// Mode implements api.Mode for the Chat Completions API.
type Mode struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ api.Mode = (*Mode)(nil)

// New creates a Completions mode instance with default values. Configure it
// with WithAPIKey and WithBaseURL before use.
func New() *Mode {
	return &Mode{client: &http.Client{}}
}

// Name returns "completions".
func (m *Mode) Name() string { return modeName }

// SupportsBackground reports background job support; always false for this surface.
func (m *Mode) SupportsBackground() bool { return false }

// SupportsCancel reports server-side cancel support; always false for this surface.
func (m *Mode) SupportsCancel() bool { return false }

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

// Send implements the synchronous path: the full history goes out, the first
// choice's message content comes back.
func (m *Mode) Send(ctx context.Context, request api.Request) (*api.Reply, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	wire := requestToWire(request)
	resp, err := httpx.PostJSON[completionResponse](ctx, m.client, m.baseURL+chatCompletionsEndpoint, m.apiKey, wire)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &api.TransportError{Kind: api.TransportDecode, Err: fmt.Errorf("no choices in response %s", resp.ID)}
	}

	return replyFromWire(*resp), nil
}
