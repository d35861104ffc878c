package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/signup/internal/db"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/google/uuid"
)

// SQLiteAttemptRepo implements AttemptRepo on SQLite.
type SQLiteAttemptRepo struct {
	db db.DBTX
}

// NewSQLiteAttemptRepo creates a repo over a *sql.DB or a *sql.Tx.
func NewSQLiteAttemptRepo(tx db.DBTX) *SQLiteAttemptRepo {
	return &SQLiteAttemptRepo{db: tx}
}

const attemptColumns = `id, email, status, error_code, latency_ms, created_at`

func (r *SQLiteAttemptRepo) Create(ctx context.Context, a *domain.SignupAttempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	query := `INSERT INTO signup_attempts (` + attemptColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		strings.TrimSpace(a.Email),
		string(a.Status),
		a.ErrorCode,
		a.LatencyMs,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting signup attempt: %w", err)
	}
	return nil
}

func (r *SQLiteAttemptRepo) GetByID(ctx context.Context, id string) (*domain.SignupAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM signup_attempts WHERE id = ?`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("signup attempt: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning signup attempt: %w", err)
	}
	return a, nil
}

func (r *SQLiteAttemptRepo) ListRecent(ctx context.Context, limit int) ([]*domain.SignupAttempt, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + attemptColumns + ` FROM signup_attempts
		ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent signup attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *SQLiteAttemptRepo) ListByEmail(ctx context.Context, email string) ([]*domain.SignupAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM signup_attempts
		WHERE email = ? COLLATE NOCASE
		ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("listing signup attempts by email: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *SQLiteAttemptRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signup_attempts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting signup attempts: %w", err)
	}
	return n, nil
}

func (r *SQLiteAttemptRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM signup_attempts WHERE id NOT IN (
		SELECT id FROM signup_attempts ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning signup attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned signup attempts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*domain.SignupAttempt, error) {
	var a domain.SignupAttempt
	var status, createdAt string
	if err := row.Scan(&a.ID, &a.Email, &status, &a.ErrorCode, &a.LatencyMs, &createdAt); err != nil {
		return nil, err
	}
	a.Status = domain.SubmitStatus(status)
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

func scanAttempts(rows *sql.Rows) ([]*domain.SignupAttempt, error) {
	var attempts []*domain.SignupAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning signup attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signup attempts: %w", err)
	}
	return attempts, nil
}
