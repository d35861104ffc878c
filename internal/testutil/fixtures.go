package testutil

import (
	"time"

	"github.com/alexanderramin/signup/internal/domain"
	"github.com/google/uuid"
)

// Attempt options
type AttemptOption func(*domain.SignupAttempt)

func WithFailure(code string) AttemptOption {
	return func(a *domain.SignupAttempt) {
		a.Status = domain.SubmitError
		a.ErrorCode = code
	}
}

func WithCreatedAt(t time.Time) AttemptOption {
	return func(a *domain.SignupAttempt) {
		a.CreatedAt = t.UTC().Truncate(time.Second)
	}
}

func WithLatency(ms int64) AttemptOption {
	return func(a *domain.SignupAttempt) {
		a.LatencyMs = ms
	}
}

// NewTestAttempt returns a successful attempt for email created now.
func NewTestAttempt(email string, opts ...AttemptOption) *domain.SignupAttempt {
	a := &domain.SignupAttempt{
		ID:        uuid.New().String(),
		Email:     email,
		Status:    domain.SubmitSuccess,
		LatencyMs: 42,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}
