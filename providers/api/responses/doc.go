// Package responses implements the [api.Mode] interface for the stateful
// Responses API surface. The server retains conversation context across turns
// via previous_response_id, so each request carries only the new user turn.
//
// This surface additionally implements [api.BackgroundMode]: requests can be
// submitted for asynchronous background execution, polled by response id, and
// cancelled best-effort via the cancel endpoint.
//
// The main entry point is [New]. Credentials and endpoint are supplied by the
// caller through [Mode.WithAPIKey] and [Mode.WithBaseURL]; this package never
// reads the environment.
package responses
