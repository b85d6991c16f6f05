package completions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mantle-cli/mantle/internal/httpx"
	"github.com/mantle-cli/mantle/providers/api"
)

/*
	CHAT COMPLETIONS API - STREAMING
*/

// streamChunk is one decoded chat.completion.chunk SSE payload. The stream
// ends with the [DONE] sentinel, which the SSE scanner reports as io.EOF.
type streamChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Stream implements the streaming path: content deltas arrive per chunk and a
// finish_reason on the last choice marks the end of the reply.
func (m *Mode) Stream(ctx context.Context, request api.Request) (*api.ReplyStream, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	request.Stream = true
	wire := requestToWire(request)

	httpResponse, err := httpx.PostStream(ctx, m.client, m.baseURL+chatCompletionsEndpoint, m.apiKey, wire)
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

			for _, choice := range chunk.Choices {
				if choice.Delta.Content != nil && *choice.Delta.Content != "" {
					if !yield(api.StreamEvent{Type: api.StreamEventDelta, Delta: *choice.Delta.Content}, nil) {
						return
					}
				}

				if choice.FinishReason != nil && *choice.FinishReason != "" {
					yield(api.StreamEvent{Type: api.StreamEventDone, ResponseID: chunk.ID}, nil)
					return
				}
			}
		}
	}

	return api.NewReplyStream(iteratorFunc), nil
}
