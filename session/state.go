package session

import (
	"fmt"

	"github.com/mantle-cli/mantle/providers/api"
)

// State owns the running conversation context for one session. Exactly one
// shape is active per session, fixed at session creation.
//
// Apply is the only mutator and is invoked exactly once per completed turn,
// never once per chunk. A turn that fails never reaches Apply, so a reader
// always observes either the pre-turn or the post-turn state.
type State interface {
	// NextRequest builds the request for a new user turn from the current
	// conversation context. The returned request is fresh; it does not alias
	// internal state.
	NextRequest(model, systemPrompt, input string) api.Request

	// Apply folds a completed turn into the state: the user turn that was
	// sent and the reply that came back.
	Apply(user api.Turn, reply *api.Reply)

	// Reset restores the state to what a freshly created session of the same
	// shape would hold.
	Reset()

	// Describe returns a one-line human-readable summary for status output.
	Describe() string
}

/*
	STATELESS SHAPE
*/

// Transcript is the stateless shape: an ordered sequence of turns resent in
// full on every request. Insertion order is significant and growth is
// unbounded within a session.
type Transcript struct {
	turns []api.Turn
}

var _ State = (*Transcript)(nil)

// NewTranscript creates an empty stateless transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// NextRequest sends the entire history plus the new user turn.
func (t *Transcript) NextRequest(model, systemPrompt, input string) api.Request {
	turns := make([]api.Turn, 0, len(t.turns)+1)
	turns = append(turns, t.turns...)
	turns = append(turns, api.Turn{Role: api.RoleUser, Text: input})

	return api.Request{
		Model:        model,
		SystemPrompt: systemPrompt,
		Turns:        turns,
	}
}

// Apply appends the user turn and the assistant turn, in that order. After N
// successful turns the history holds exactly 2N entries.
func (t *Transcript) Apply(user api.Turn, reply *api.Reply) {
	t.turns = append(t.turns, user, api.Turn{Role: api.RoleAssistant, Text: reply.Text})
}

// Reset clears the history.
func (t *Transcript) Reset() {
	t.turns = nil
}

// History returns a copy of the accumulated turns.
func (t *Transcript) History() []api.Turn {
	out := make([]api.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Describe() string {
	return fmt.Sprintf("Messages in history: %d", len(t.turns))
}

/*
	STATEFUL SHAPE
*/

// Thread is the stateful shape: the server holds the history, the client
// holds only the last response identifier. Once set, the identifier is
// supplied on every subsequent request until Reset clears it.
type Thread struct {
	previousResponseID string
}

var _ State = (*Thread)(nil)

// NewThread creates a stateful thread with no prior context.
func NewThread() *Thread {
	return &Thread{}
}

// NextRequest sends only the new user turn, linked to the server-side
// conversation via the previous response id when one exists.
func (t *Thread) NextRequest(model, systemPrompt, input string) api.Request {
	return api.Request{
		Model:              model,
		SystemPrompt:       systemPrompt,
		Turns:              []api.Turn{{Role: api.RoleUser, Text: input}},
		PreviousResponseID: t.previousResponseID,
	}
}

// Apply replaces the previous response id with the one the reply carries.
// A reply without an id (which the responses surface never produces on
// success) leaves the thread unchanged rather than breaking the chain.
func (t *Thread) Apply(user api.Turn, reply *api.Reply) {
	if reply.ID != "" {
		t.previousResponseID = reply.ID
	}
}

// Reset clears the previous response id, starting a new server-side
// conversation on the next turn.
func (t *Thread) Reset() {
	t.previousResponseID = ""
}

// PreviousResponseID returns the current response id, or "" for a new
// conversation.
func (t *Thread) PreviousResponseID() string {
	return t.previousResponseID
}

func (t *Thread) Describe() string {
	if t.previousResponseID == "" {
		return "Previous response ID: None (new conversation)"
	}
	return "Previous response ID: " + t.previousResponseID
}
