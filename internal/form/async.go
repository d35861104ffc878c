package form

import (
	"context"
	"time"

	"github.com/alexanderramin/signup/internal/checker"
	"github.com/alexanderramin/signup/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	MsgEmailTaken   = "This email is already taken."
	MsgPasswordWeak = "Password is too weak."
)

// AsyncValidator reports whether a field is currently valid per the server.
// Every Validate call starts a request cycle that resolves to exactly one
// verdict, unless a later cycle supersedes it first.
type AsyncValidator interface {
	Field() domain.Field
	Validate(value string) tea.Cmd
	Retry() tea.Cmd
	Reset()
	Handles(msg tea.Msg) bool
	Update(msg tea.Msg) (tea.Cmd, bool)
	Verdict() domain.Verdict
	Checks() int
}

type remoteValidator[T any] struct {
	field   domain.Field
	checker *checker.Checker[T]
	judge   func(T) domain.Verdict
}

func (v *remoteValidator[T]) Field() domain.Field { return v.field }

func (v *remoteValidator[T]) Validate(value string) tea.Cmd { return v.checker.Push(value) }

func (v *remoteValidator[T]) Retry() tea.Cmd { return v.checker.Retry() }

func (v *remoteValidator[T]) Reset() { v.checker.Reset() }

func (v *remoteValidator[T]) Handles(msg tea.Msg) bool { return v.checker.Handles(msg) }

func (v *remoteValidator[T]) Update(msg tea.Msg) (tea.Cmd, bool) { return v.checker.Update(msg) }

func (v *remoteValidator[T]) Checks() int { return v.checker.Issued() }

func (v *remoteValidator[T]) Verdict() domain.Verdict {
	out := v.checker.Outcome()
	if out.State != checker.StateSettled {
		return domain.Pending()
	}
	return v.judge(out.Result)
}

// EmailUniquenessValidator fails emails the service reports as taken.
type EmailUniquenessValidator struct {
	remoteValidator[bool]
}

// NewEmailUniquenessValidator checks emails with isTaken after window.
func NewEmailUniquenessValidator(isTaken func(ctx context.Context, email string) (bool, error), window time.Duration, opts ...checker.Option) *EmailUniquenessValidator {
	return &EmailUniquenessValidator{remoteValidator[bool]{
		field:   domain.FieldEmail,
		checker: checker.New(string(domain.FieldEmail), window, isTaken, opts...),
		judge: func(taken bool) domain.Verdict {
			if taken {
				return domain.Invalid(MsgEmailTaken)
			}
			return domain.Valid()
		},
	}}
}

// PasswordStrengthValidator fails passwords scoring below minScore.
type PasswordStrengthValidator struct {
	remoteValidator[domain.PasswordStrength]
	minScore int
}

// NewPasswordStrengthValidator scores passwords with strength after window.
func NewPasswordStrengthValidator(strength func(ctx context.Context, password string) (domain.PasswordStrength, error), window time.Duration, minScore int, opts ...checker.Option) *PasswordStrengthValidator {
	v := &PasswordStrengthValidator{minScore: minScore}
	v.remoteValidator = remoteValidator[domain.PasswordStrength]{
		field:   domain.FieldPassword,
		checker: checker.New(string(domain.FieldPassword), window, strength, opts...),
		judge: func(s domain.PasswordStrength) domain.Verdict {
			if !s.Strong(v.minScore) {
				return domain.Invalid(MsgPasswordWeak)
			}
			return domain.Valid()
		},
	}
	return v
}

// Strength returns the settled estimate for the current password.
// ok is false while the estimate is pending or the field is empty.
func (v *PasswordStrengthValidator) Strength() (s domain.PasswordStrength, ok bool) {
	out := v.checker.Outcome()
	if out.State != checker.StateSettled {
		return domain.PasswordStrength{}, false
	}
	return out.Result, true
}

// MinScore returns the lowest accepted score.
func (v *PasswordStrengthValidator) MinScore() int { return v.minScore }
