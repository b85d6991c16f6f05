package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mantle-cli/mantle/providers/api"
)

// ErrTurnCancelled marks a background turn that ended because the caller's
// cancellation signal was observed. Recoverable: the session continues with
// unchanged state.
var ErrTurnCancelled = errors.New("background turn cancelled")

// progressDotEvery controls how many polls pass between progress dots.
const progressDotEvery = 5

// runBackground drives the submit/poll lifecycle of one background turn:
// submit the job, poll at the configured interval while it is queued or in
// progress, and extract the reply from the final payload. The cancellation signal is
// checked at each poll boundary, never mid-request; when observed, a
// best-effort server cancel is issued before returning.
func (s *Session) runBackground(ctx context.Context, request api.Request, emit func(string)) (*api.Reply, error) {
	background, ok := s.mode.(api.BackgroundMode)
	if !ok || !s.mode.SupportsBackground() {
		return nil, api.NewUnsupportedOperation(s.mode.Name(), "background execution")
	}

	job, err := background.Submit(ctx, request)
	if err != nil {
		return nil, err
	}

	s.log.Debug("background job submitted",
		slog.String("job_id", job.ID),
		slog.String("status", string(job.Status)),
	)

	emit("[Background processing started...]")

	// Poll only while the server reports a known in-flight status. Anything
	// else, terminal or not, stops the loop; an unmodeled status (the server
	// may report e.g. incomplete or expired) must not poll forever.
	pollCount := 0
	for job.Status == api.JobQueued || job.Status == api.JobInProgress {
		select {
		case <-ctx.Done():
			s.cancelBestEffort(ctx, background, job.ID)
			return nil, fmt.Errorf("%w: %v", ErrTurnCancelled, ctx.Err())
		case <-time.After(s.opts.PollInterval):
		}

		pollCount++
		if pollCount%progressDotEvery == 0 {
			emit(".")
		}

		job, err = background.Poll(ctx, job.ID)
		if err != nil {
			return nil, err
		}
	}

	emit("\n")
	s.log.Debug("background job finished",
		slog.String("job_id", job.ID),
		slog.String("status", string(job.Status)),
		slog.Int("polls", pollCount),
	)

	switch job.Status {
	case api.JobCompleted:
		if job.Result == nil {
			return nil, &api.TransportError{Kind: api.TransportDecode, Err: fmt.Errorf("completed job %s has no payload", job.ID)}
		}
		emit(job.Result.Text)
		return job.Result, nil

	case api.JobFailed:
		return nil, &api.JobFailureError{JobID: job.ID, Message: job.Error}

	case api.JobCancelled:
		return nil, fmt.Errorf("%w: job %s cancelled server-side", ErrTurnCancelled, job.ID)

	default:
		return nil, fmt.Errorf("background job %s ended in unexpected status %q", job.ID, job.Status)
	}
}

// Cancel issues a server-side cancel for the given job. It fails with an
// UnsupportedOperation error, leaving the session state untouched, when the
// active mode has no cancel support.
func (s *Session) Cancel(ctx context.Context, jobID string) (*api.Job, error) {
	background, ok := s.mode.(api.BackgroundMode)
	if !ok || !s.mode.SupportsCancel() {
		return nil, api.NewUnsupportedOperation(s.mode.Name(), "cancel")
	}
	return background.Cancel(ctx, jobID)
}

// cancelBestEffort asks the server to stop a job after the caller's context
// was cancelled. It runs on a detached context with a short deadline; the
// server is not guaranteed to stop processing, so failures are only logged.
func (s *Session) cancelBestEffort(ctx context.Context, background api.BackgroundMode, jobID string) {
	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if _, err := background.Cancel(cancelCtx, jobID); err != nil {
		s.log.Warn("best-effort job cancel failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
