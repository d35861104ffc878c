package domain

import "time"

// Credentials is the value snapshot sent to the signup operation.
type Credentials struct {
	Email    string
	Password string
}

// SignupAttempt records the outcome of one finished submit.
// The password is never part of the record.
type SignupAttempt struct {
	ID        string
	Email     string
	Status    SubmitStatus
	ErrorCode string
	LatencyMs int64
	CreatedAt time.Time
}

// Succeeded reports whether the attempt created an account.
func (a *SignupAttempt) Succeeded() bool {
	return a.Status == SubmitSuccess
}
