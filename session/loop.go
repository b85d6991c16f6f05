package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mantle-cli/mantle/providers/api"
)

// exitCommands are the control inputs that terminate the loop.
var exitCommands = map[string]struct{}{
	"/quit": {},
	"/q":    {},
	"/exit": {},
	"/e":    {},
}

// Loop reads user turns from an input stream and drives the session to a
// terminal outcome per turn, writing assistant output as it is produced.
//
// Three control inputs are recognized alongside normal turns: quit
// (/quit, /q, /exit, /e), /clear (reset conversation state), and /status
// (read-only report). Anything else, including near-miss command typos, is
// sent to the model as an ordinary turn.
type Loop struct {
	Session *Session
	Out     io.Writer

	// UserLabel and AssistantLabel are printed before the prompt and the
	// reply. Callers may pre-style them; defaults are plain "You" and
	// "Assistant".
	UserLabel      string
	AssistantLabel string

	in *bufio.Scanner
}

// NewLoop creates an interactive loop over the given session, reading turns
// from in and writing output to out.
func NewLoop(sess *Session, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		Session:        sess,
		Out:            out,
		UserLabel:      "You",
		AssistantLabel: "Assistant",
		in:             bufio.NewScanner(in),
	}
}

// Run processes turns until the user quits, input reaches EOF, or the context
// is cancelled. Every per-turn failure is reported and the loop continues;
// nothing in a turn is fatal to the loop itself.
func (l *Loop) Run(ctx context.Context) error {
	for {
		// A cancelled context is a clean session end (Ctrl-C), not a failure.
		if ctx.Err() != nil {
			fmt.Fprintln(l.Out, "Chat session ended.")
			return nil
		}

		fmt.Fprintf(l.Out, "%s: ", l.UserLabel)
		if !l.in.Scan() {
			if err := l.in.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil // EOF
		}

		input := strings.TrimSpace(l.in.Text())
		if input == "" {
			continue
		}

		if _, quit := exitCommands[strings.ToLower(input)]; quit {
			fmt.Fprintln(l.Out, "Goodbye!")
			return nil
		}

		switch strings.ToLower(input) {
		case "/clear":
			l.Session.State().Reset()
			fmt.Fprintf(l.Out, "Conversation cleared.\n\n")
			continue
		case "/status":
			fmt.Fprintf(l.Out, "%s\n\n", l.Session.Status())
			continue
		}

		fmt.Fprintf(l.Out, "\n%s: ", l.AssistantLabel)

		_, err := l.Session.RunTurn(ctx, input, func(chunk string) {
			fmt.Fprint(l.Out, chunk)
		})

		switch {
		case err == nil:
			fmt.Fprint(l.Out, "\n\n")
		case errors.Is(err, ErrTurnCancelled):
			fmt.Fprint(l.Out, "\n[Background task was cancelled]\n\n")
		case errors.Is(err, context.Canceled):
			// Interrupt: the turn is gone, hand control back to the caller.
			fmt.Fprintln(l.Out, "\n\nChat session ended.")
			return nil
		default:
			l.reportTurnError(err)
		}
	}
}

// reportTurnError prints a per-turn failure. Transport and job failures are
// conversational: the turn is lost, the session and its state continue.
func (l *Loop) reportTurnError(err error) {
	var jobErr *api.JobFailureError
	if errors.As(err, &jobErr) {
		fmt.Fprintf(l.Out, "\n[Background task failed: %s]\n\n", jobErr.Message)
		return
	}
	fmt.Fprintf(l.Out, "\nError: %v\n\n", err)
}
