// Package api defines the shared, surface-agnostic types and interfaces used
// by both API mode implementations (Responses and Chat Completions). Each
// mode's conversion layer maps these types to its own wire format, keeping the
// session engine decoupled from endpoint-specific details.
//
// The two central interfaces are [Mode] for synchronous and streaming turns
// and [BackgroundMode] for asynchronous background execution. Request data
// flows through [Request] and completed turns come back as [Reply]. For
// real-time streaming, [ReplyStream] and [StreamEvent] carry incremental
// deltas to the caller.
package api
