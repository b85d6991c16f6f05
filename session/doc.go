// Package session implements the conversation session engine: per-turn state
// tracking for both API surfaces, dispatch across the synchronous, streaming,
// and background execution paths, and the interactive read/eval loop.
//
// A [Session] pairs one [api.Mode] with one [State] shape for its whole
// lifetime: the stateless [Transcript] (full local history) for the
// completions surface, the stateful [Thread] (previous response id) for the
// responses surface. Switching surfaces means starting a new session.
//
// At most one request is in flight per session at any time. State is mutated
// exactly once per completed turn via [State.Apply]; a failed turn leaves it
// untouched.
package session
