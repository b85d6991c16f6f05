package completions

import (
	"github.com/mantle-cli/mantle/providers/api"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// completionRequest represents the /chat/completions request format.
type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   *bool         `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type completionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role    string `json:"role"` // "assistant"
	Content string `json:"content,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CONVERSION FUNCTIONS
*/

// requestToWire converts an api.Request into the Chat Completions wire
// format. The surface is stateless, so the entire turn sequence is sent, with
// the system prompt as the leading message when present.
func requestToWire(request api.Request) completionRequest {
	messages := make([]chatMessage, 0, len(request.Turns)+1)

	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(api.RoleSystem), Content: request.SystemPrompt})
	}

	for _, turn := range request.Turns {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}

	wire := completionRequest{
		Model:    request.Model,
		Messages: messages,
	}

	if request.Stream {
		stream := true
		wire.Stream = &stream
	}

	return wire
}

// replyFromWire converts a completion response into the generic api.Reply.
// The completion id is carried for diagnostics only; it never feeds back into
// a later request.
func replyFromWire(resp completionResponse) *api.Reply {
	reply := &api.Reply{
		ID:      resp.ID,
		Model:   resp.Model,
		Created: resp.Created,
		Text:    resp.Choices[0].Message.Content,
	}

	if resp.Usage != nil {
		reply.Usage = &api.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return reply
}
