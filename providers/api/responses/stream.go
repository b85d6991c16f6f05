package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mantle-cli/mantle/internal/httpx"
	"github.com/mantle-cli/mantle/providers/api"
)

/*
	RESPONSES API - STREAMING EVENTS
*/

// Streaming event types emitted by the Responses SSE stream. Each SSE payload
// is a JSON object whose "type" field selects the event shape.
const (
	eventOutputTextDelta = "response.output_text.delta"
	eventCompleted       = "response.completed"
	eventQueued          = "response.queued"
	eventInProgress      = "response.in_progress"
	eventFailed          = "response.failed"
	eventError           = "error"
)

// streamChunk is the decoded form of one Responses SSE payload. Only the
// fields relevant to the event's type are populated.
type streamChunk struct {
	Type     string        `json:"type"`
	Delta    string        `json:"delta,omitempty"`    // for response.output_text.delta
	Response *responseBody `json:"response,omitempty"` // for response.completed / response.failed
	Message  string        `json:"message,omitempty"`  // for error
	Code     string        `json:"code,omitempty"`     // for error
}

// Stream implements the streaming path. It sends the request with stream
// enabled and returns a ReplyStream yielding deltas as SSE events arrive.
// Background streaming works the same way: lifecycle markers (queued,
// in_progress) are yielded as status events before the first delta.
func (m *Mode) Stream(ctx context.Context, request api.Request) (*api.ReplyStream, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	request.Stream = true
	wire := requestToWire(request)

	httpResponse, err := httpx.PostStream(ctx, m.client, m.baseURL+responsesEndpoint, m.apiKey, wire)
	if err != nil {
		return nil, err
	}

	scanner := httpx.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(api.StreamEvent, error) bool) {
		defer httpx.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(api.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := scanner.Next()
			if sseErr == io.EOF {
				return
			}
			if sseErr != nil {
				yield(api.StreamEvent{}, &api.TransportError{Kind: api.TransportConnection, Err: sseErr})
				return
			}

			var chunk streamChunk
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				yield(api.StreamEvent{}, &api.TransportError{
					Kind: api.TransportDecode,
					Body: httpx.TruncateString(payload, 500),
					Err:  parseErr,
				})
				return
			}

			switch chunk.Type {
			case eventOutputTextDelta:
				if !yield(api.StreamEvent{Type: api.StreamEventDelta, Delta: chunk.Delta}, nil) {
					return
				}

			case eventQueued:
				if !yield(api.StreamEvent{Type: api.StreamEventStatus, Status: api.JobQueued}, nil) {
					return
				}

			case eventInProgress:
				if !yield(api.StreamEvent{Type: api.StreamEventStatus, Status: api.JobInProgress}, nil) {
					return
				}

			case eventCompleted:
				done := api.StreamEvent{Type: api.StreamEventDone}
				if chunk.Response != nil {
					done.ResponseID = chunk.Response.ID
					if chunk.Response.Usage != nil {
						done.Usage = &api.Usage{
							PromptTokens:     chunk.Response.Usage.InputTokens,
							CompletionTokens: chunk.Response.Usage.OutputTokens,
							TotalTokens:      chunk.Response.Usage.TotalTokens,
						}
					}
				}
				yield(done, nil)
				return

			case eventFailed:
				message := "response failed"
				if chunk.Response != nil {
					message = chunk.Response.errorMessage()
				}
				yield(api.StreamEvent{Type: api.StreamEventError, Error: message}, fmt.Errorf("%s", message))
				return

			case eventError:
				yield(api.StreamEvent{Type: api.StreamEventError, Error: chunk.Message}, fmt.Errorf("stream error: %s", chunk.Message))
				return

			default:
				// Unknown event types (output item markers, content part
				// boundaries) are skipped; the delta and completed events
				// carry everything the session needs.
			}
		}
	}

	return api.NewReplyStream(iteratorFunc), nil
}
