package api

import (
	"iter"
)

// StreamEventType identifies the kind of payload carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventDelta indicates an incremental assistant text chunk.
	StreamEventDelta StreamEventType = "delta"
	// StreamEventStatus indicates a lifecycle marker (queued, in_progress)
	// emitted before the first delta of a background streaming turn.
	StreamEventStatus StreamEventType = "status"
	// StreamEventDone signals that the stream has finished normally and
	// carries the completion metadata.
	StreamEventDone StreamEventType = "done"
	// StreamEventError signals an error that terminated the stream.
	StreamEventError StreamEventType = "error"
)

// StreamEvent represents a single event yielded during a streaming turn.
// Events are ephemeral: consumed in order, never stored beyond accumulation
// into the final assistant text.
type StreamEvent struct {
	Type       StreamEventType `json:"type"`
	Delta      string          `json:"delta,omitempty"`       // Text chunk (Type == StreamEventDelta)
	Status     JobStatus       `json:"status,omitempty"`      // Lifecycle marker (Type == StreamEventStatus)
	ResponseID string          `json:"response_id,omitempty"` // Present on StreamEventDone in responses mode
	Usage      *Usage          `json:"usage,omitempty"`       // Present on StreamEventDone when reported
	Error      string          `json:"error,omitempty"`       // Error message (Type == StreamEventError)
}

// ReplyStream wraps a streaming iterator and provides automatic accumulation
// of deltas into a final Reply. It supports range-based iteration for
// real-time token emission and a convenience Collect() method for callers who
// want the complete reply.
//
// The sequence is lazy, forward-only, and non-restartable. Callers must
// consume it, either by iterating with Iter() (including breaking out early)
// or by calling Collect(): the underlying mode holds an open HTTP response
// body that is only released when the iterator completes or is abandoned via
// a loop break.
type ReplyStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewReplyStream creates a ReplyStream from a raw streaming iterator.
// The iterator yields StreamEvent values (with nil error) for normal events,
// and may yield a non-nil error to signal a mid-stream failure. Iteration must
// stop after the first error or done event.
func NewReplyStream(iterator iter.Seq2[StreamEvent, error]) *ReplyStream {
	return &ReplyStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Delta)
//	}
func (stream *ReplyStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the accumulated Reply.
// A mid-stream error terminates collection and returns the error; per the
// session contract the partially accumulated text must then be discarded, so
// the Reply is nil on error.
func (stream *ReplyStream) Collect() (*Reply, error) {
	accumulated := &Reply{}

	for event, err := range stream.iterator {
		if err != nil {
			return nil, err
		}

		switch event.Type {
		case StreamEventDelta:
			accumulated.Text += event.Delta

		case StreamEventDone:
			if event.ResponseID != "" {
				accumulated.ID = event.ResponseID
			}
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}

		case StreamEventStatus, StreamEventError:
			// Status markers carry no text; error events are informational,
			// the actual error arrives through the iterator's error value.
		}
	}

	return accumulated, nil
}
