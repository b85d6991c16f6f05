// Package completions implements the [api.Mode] interface for the stateless
// Chat Completions API surface. The server keeps no conversation context, so
// each request carries the full turn history, system prompt first.
//
// This surface supports neither background execution nor server-side cancel;
// it deliberately does not implement [api.BackgroundMode].
package completions
