package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mantle-cli/mantle/providers/api"
)

// DefaultPollInterval is the background polling cadence when Options leaves
// PollInterval unset. One second keeps the wait interactive.
const DefaultPollInterval = time.Second

// Options configures a session. Model is required; the zero value of every
// other field is usable.
type Options struct {
	Model        string
	SystemPrompt string
	Stream       bool
	Background   bool
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Session drives one conversation: it pairs an API mode with a state shape
// for its whole lifetime and runs turns one at a time. At most one request is
// in flight per session; RunTurn must not be called concurrently.
type Session struct {
	id    string
	mode  api.Mode
	state State
	opts  Options
	log   *slog.Logger
}

// New creates a session over the given mode and state shape. The pairing is
// fixed for the session's lifetime.
func New(mode api.Mode, state State, opts Options) (*Session, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("session: model is required")
	}
	if opts.Background && !mode.SupportsBackground() {
		return nil, api.NewUnsupportedOperation(mode.Name(), "background execution")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	return &Session{
		id:    id,
		mode:  mode,
		state: state,
		opts:  opts,
		log:   logger.With(slog.String("session_id", id)),
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the active API mode.
func (s *Session) Mode() api.Mode { return s.mode }

// State returns the session's conversation state.
func (s *Session) State() State { return s.state }

// RunTurn executes one user turn to its terminal outcome. Assistant text is
// delivered through emit: incrementally for streaming turns, as one chunk
// otherwise, with bracketed progress markers during background waits.
//
// On success the completed reply is folded into the session state exactly
// once and returned. On any failure the state is left unchanged and any
// partially emitted text must be treated as discarded by the caller.
func (s *Session) RunTurn(ctx context.Context, input string, emit func(string)) (*api.Reply, error) {
	if emit == nil {
		emit = func(string) {}
	}

	user := api.Turn{Role: api.RoleUser, Text: input}
	request := s.state.NextRequest(s.opts.Model, s.opts.SystemPrompt, input)

	s.log.Debug("turn start",
		slog.String("mode", s.mode.Name()),
		slog.Bool("stream", s.opts.Stream),
		slog.Bool("background", s.opts.Background),
	)

	var (
		reply *api.Reply
		err   error
	)

	switch {
	case s.opts.Background && !s.opts.Stream:
		reply, err = s.runBackground(ctx, request, emit)
	case s.opts.Stream:
		if s.opts.Background {
			request.Background = true
		}
		reply, err = s.runStreaming(ctx, request, emit)
	default:
		reply, err = s.mode.Send(ctx, request)
		if err == nil {
			emit(reply.Text)
		}
	}

	if err != nil {
		s.log.Debug("turn failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.state.Apply(user, reply)
	s.log.Debug("turn applied", slog.String("response_id", reply.ID))
	return reply, nil
}

// runStreaming consumes a streaming turn, emitting deltas as they arrive.
// A mid-stream failure discards the partial accumulation: no reply is
// returned and the state is never touched.
func (s *Session) runStreaming(ctx context.Context, request api.Request, emit func(string)) (*api.Reply, error) {
	stream, err := s.mode.Stream(ctx, request)
	if err != nil {
		return nil, err
	}

	reply := &api.Reply{}
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			return nil, iterErr
		}

		switch event.Type {
		case api.StreamEventDelta:
			emit(event.Delta)
			reply.Text += event.Delta

		case api.StreamEventStatus:
			switch event.Status {
			case api.JobQueued:
				emit("[Queued...]")
			case api.JobInProgress:
				emit("[Processing...]")
			}

		case api.StreamEventDone:
			reply.ID = event.ResponseID
			reply.Usage = event.Usage
		}
	}

	return reply, nil
}

// Status reports the session's mode, model, and flags without mutating any
// state.
func (s *Session) Status() string {
	var b strings.Builder

	switch s.mode.Name() {
	case "completions":
		b.WriteString("API: Chat Completions (stateless)\n")
	default:
		b.WriteString("API: Responses (stateful)\n")
	}

	fmt.Fprintf(&b, "Model: %s\n", s.opts.Model)
	fmt.Fprintf(&b, "Streaming: %s\n", enabledDisabled(s.opts.Stream))
	if s.mode.SupportsBackground() {
		fmt.Fprintf(&b, "Background: %s\n", enabledDisabled(s.opts.Background))
	}
	b.WriteString(s.state.Describe())

	return b.String()
}

func enabledDisabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
