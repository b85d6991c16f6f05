// Package httpx contains the shared HTTP plumbing used by both API mode
// implementations: generic JSON request helpers, an SSE scanner for streaming
// responses, and normalization of every failure into the [api.TransportError]
// taxonomy (timeout, connection, http_status, decode).
package httpx
