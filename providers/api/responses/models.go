package responses

import (
	"github.com/mantle-cli/mantle/providers/api"
)

/*
	RESPONSES API - INPUT
*/

// createRequest is the request body for the `/responses` endpoint.
type createRequest struct {
	Model              string      `json:"model"`
	Input              interface{} `json:"input"` // string or []inputItem
	PreviousResponseID string      `json:"previous_response_id,omitempty"`
	Stream             *bool       `json:"stream,omitempty"`
	Background         *bool       `json:"background,omitempty"`
}

// inputItem represents an item in the input array.
type inputItem struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

/*
	RESPONSES API - OUTPUT
*/

// Response lifecycle statuses reported by the server.
const (
	statusQueued     = "queued"
	statusInProgress = "in_progress"
	statusCompleted  = "completed"
	statusFailed     = "failed"
	statusCancelled  = "cancelled"
)

// responseBody is the shared response shape returned by create, retrieve, and
// cancel calls.
type responseBody struct {
	ID        string        `json:"id"`
	Object    string        `json:"object"` // "response"
	CreatedAt float64       `json:"created_at"`
	Model     string        `json:"model"`
	Status    string        `json:"status"`
	Output    []outputItem  `json:"output"`
	Usage     *usageDetails `json:"usage,omitempty"`
	Error     *errorDetails `json:"error,omitempty"`
}

// outputItem represents an element in the `output` array.
type outputItem struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`           // "message", "reasoning", ...
	Role    string          `json:"role,omitempty"` // "assistant"
	Content []contentOutput `json:"content,omitempty"`
	Status  string          `json:"status,omitempty"`
}

type contentOutput struct {
	Type string `json:"type"` // "output_text", "refusal"
	Text string `json:"text,omitempty"`
}

type usageDetails struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type errorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (r responseBody) errorMessage() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	return r.Status
}

/*
	CONVERSION FUNCTIONS
*/

// requestToWire converts an api.Request into the Responses wire format. The
// system prompt rides along as the leading input item only when the request
// opens a new conversation (no previous_response_id); on continuation turns
// the server already holds it.
func requestToWire(request api.Request) createRequest {
	var input []inputItem

	if request.SystemPrompt != "" && request.PreviousResponseID == "" {
		input = append(input, inputItem{Role: string(api.RoleSystem), Content: request.SystemPrompt})
	}

	for _, turn := range request.Turns {
		input = append(input, inputItem{Role: string(turn.Role), Content: turn.Text})
	}

	// A single user message with no system prompt collapses to the simple
	// string input form.
	var finalInput interface{}
	if len(input) == 1 && input[0].Role == string(api.RoleUser) {
		finalInput = input[0].Content
	} else {
		finalInput = input
	}

	wire := createRequest{
		Model:              request.Model,
		Input:              finalInput,
		PreviousResponseID: request.PreviousResponseID,
	}

	if request.Stream {
		stream := true
		wire.Stream = &stream
	}
	if request.Background {
		background := true
		wire.Background = &background
	}

	return wire
}

// replyFromWire converts a completed Responses body into the generic
// api.Reply, joining all output_text parts in order.
func replyFromWire(resp responseBody) *api.Reply {
	reply := &api.Reply{
		ID:      resp.ID,
		Model:   resp.Model,
		Created: int64(resp.CreatedAt),
	}

	for _, output := range resp.Output {
		if output.Type != "message" {
			// reasoning and native tool call items carry no assistant text
			continue
		}
		for _, content := range output.Content {
			if content.Type == "output_text" {
				if reply.Text != "" {
					reply.Text += "\n"
				}
				reply.Text += content.Text
			}
		}
	}

	if resp.Usage != nil {
		reply.Usage = &api.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return reply
}

// jobFromWire converts a Responses body into the background job handle.
// Result is attached only once the job has completed; the server error detail
// rides on failed jobs.
func jobFromWire(resp responseBody) *api.Job {
	job := &api.Job{ID: resp.ID}

	switch resp.Status {
	case statusQueued:
		job.Status = api.JobQueued
	case statusInProgress:
		job.Status = api.JobInProgress
	case statusCompleted:
		job.Status = api.JobCompleted
		job.Result = replyFromWire(resp)
	case statusFailed:
		job.Status = api.JobFailed
		job.Error = resp.errorMessage()
	case statusCancelled:
		job.Status = api.JobCancelled
	default:
		job.Status = api.JobStatus(resp.Status)
	}

	return job
}
