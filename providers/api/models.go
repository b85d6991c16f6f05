package api

/*
	##### MODE INPUT #####
*/

// Request represents one conversational turn to be sent to the service.
// It is constructed fresh per turn and never mutated after send.
type Request struct {
	Model        string `json:"model,omitempty"`         // Model name or identifier
	Turns        []Turn `json:"turns"`                   // Conversation turns to send; full history in completions mode, the new turn only in responses mode
	SystemPrompt string `json:"system_prompt,omitempty"` // Optional system prompt; sent only when the conversation has no prior context
	// PreviousResponseID links this turn to the server-side conversation in
	// responses mode. Empty means a new conversation.
	PreviousResponseID string `json:"previous_response_id,omitempty"`
	Stream             bool   `json:"stream,omitempty"`     // Deliver the reply as incremental SSE deltas
	Background         bool   `json:"background,omitempty"` // Execute asynchronously (responses mode only)
}

// Turn represents a single message in a conversation. Immutable once created.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Role identifies the author of a turn; compatible with string
type Role string

const (
	RoleSystem    Role = "system"    // System instructions/configuration
	RoleUser      Role = "user"      // End-user message
	RoleAssistant Role = "assistant" // Model response
)

/*
	##### MODE OUTPUT #####
*/

// Reply is the completed result of one turn, whatever transport produced it
// (sync, streamed, or background).
type Reply struct {
	// ID is the server-assigned response identifier. Populated by the
	// responses surface, where it becomes the next turn's
	// previous_response_id; the completions surface returns its completion id
	// for diagnostics only.
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Text    string `json:"text"`
	Created int64  `json:"created,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

/*
	##### BACKGROUND JOBS #####
*/

// JobStatus is the lifecycle state of a background job. Valid transitions:
// queued -> in_progress -> completed|failed, and queued|in_progress ->
// cancelled (user-initiated only). Terminal states have no outgoing
// transitions.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job is the handle for one background request. Result is non-nil only once
// Status is JobCompleted; Error carries the server-reported failure detail
// when Status is JobFailed.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	Result *Reply    `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
}
