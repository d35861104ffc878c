package form

import (
	"context"

	"github.com/alexanderramin/signup/internal/domain"
)

// Service is the remote signup collaborator.
type Service interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	PasswordStrength(ctx context.Context, password string) (domain.PasswordStrength, error)
	Signup(ctx context.Context, creds domain.Credentials) error
}

// AttemptRecorder stores finished submit attempts.
type AttemptRecorder interface {
	Create(ctx context.Context, a *domain.SignupAttempt) error
}
