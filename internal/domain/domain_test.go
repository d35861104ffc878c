package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictConstructors(t *testing.T) {
	assert.True(t, Pending().IsPending())
	assert.Empty(t, Pending().Reason)
	assert.True(t, Valid().IsValid())

	v := Invalid("Password is too weak.")
	assert.True(t, v.IsInvalid())
	assert.Equal(t, "Password is too weak.", v.Reason)
}

func TestPasswordStrength_Strong(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{4, true},
	}
	for _, tt := range tests {
		s := PasswordStrength{Score: tt.score}
		assert.Equal(t, tt.want, s.Strong(DefaultMinPasswordScore), "score %d", tt.score)
	}
}

func TestValidScore(t *testing.T) {
	assert.True(t, ValidScore(0))
	assert.True(t, ValidScore(MaxPasswordScore))
	assert.False(t, ValidScore(-1))
	assert.False(t, ValidScore(MaxPasswordScore+1))
}

func TestFieldErrorID(t *testing.T) {
	assert.Equal(t, "email-error", FieldEmail.ErrorID())
	assert.Equal(t, "password-error", FieldPassword.ErrorID())
}

func TestSignupAttempt_Succeeded(t *testing.T) {
	assert.True(t, (&SignupAttempt{Status: SubmitSuccess}).Succeeded())
	assert.False(t, (&SignupAttempt{Status: SubmitError}).Succeeded())
}
