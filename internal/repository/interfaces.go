package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/signup/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// AttemptRepo stores finished signup attempts.
type AttemptRepo interface {
	Create(ctx context.Context, a *domain.SignupAttempt) error
	GetByID(ctx context.Context, id string) (*domain.SignupAttempt, error)
	// ListRecent returns up to limit attempts, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.SignupAttempt, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.SignupAttempt, error)
	Count(ctx context.Context) (int, error)
	// Prune deletes all but the newest keep attempts and returns how many went.
	Prune(ctx context.Context, keep int) (int64, error)
}
