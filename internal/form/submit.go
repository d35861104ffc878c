package form

import (
	"time"

	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/remote"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitResultMsg carries the outcome of a signup call back into the loop.
type SubmitResultMsg struct {
	Attempt domain.SignupAttempt
	Err     error
}

// Submit starts the signup call for a snapshot of the current values.
// It returns nil, doing nothing, while the form is not valid or another
// submit is still in flight.
func (f *Form) Submit() tea.Cmd {
	if f.submitting || !f.Valid() {
		return nil
	}
	f.submitting = true

	creds := f.Snapshot()
	ctx, svc, recorder, log, now := f.ctx, f.svc, f.recorder, f.log, f.now

	return func() tea.Msg {
		start := now()
		err := svc.Signup(ctx, creds)

		attempt := domain.SignupAttempt{
			ID:        uuid.NewString(),
			Email:     creds.Email,
			Status:    domain.SubmitSuccess,
			LatencyMs: now().Sub(start).Milliseconds(),
			CreatedAt: start.UTC().Truncate(time.Second),
		}
		if err != nil {
			attempt.Status = domain.SubmitError
			attempt.ErrorCode = remote.ErrorCode(err)
		}

		if recorder != nil {
			if rerr := recorder.Create(ctx, &attempt); rerr != nil {
				log.Warn("recording signup attempt", zap.String("attempt_id", attempt.ID), zap.Error(rerr))
			}
		}
		return SubmitResultMsg{Attempt: attempt, Err: err}
	}
}

// Submitting reports whether a signup call is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// Status returns the tri-state submit status.
func (f *Form) Status() domain.SubmitStatus { return f.status }

// SubmitErr returns the error of the last failed submit, if the last
// submit failed.
func (f *Form) SubmitErr() error { return f.submitErr }

func (f *Form) finishSubmit(msg SubmitResultMsg) {
	f.submitting = false
	if msg.Err != nil {
		f.status = domain.SubmitError
		f.submitErr = msg.Err
		f.log.Warn("signup failed",
			zap.String("attempt_id", msg.Attempt.ID),
			zap.String("error_code", msg.Attempt.ErrorCode),
			zap.Error(msg.Err))
		return
	}
	f.status = domain.SubmitSuccess
	f.submitErr = nil
	f.log.Info("signup succeeded",
		zap.String("attempt_id", msg.Attempt.ID),
		zap.Int64("latency_ms", msg.Attempt.LatencyMs))
	f.Reset()
}
