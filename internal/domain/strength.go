package domain

const (
	// MaxPasswordScore is the highest score the strength service reports.
	MaxPasswordScore = 4

	// DefaultMinPasswordScore is the lowest score accepted as strong enough.
	DefaultMinPasswordScore = 3
)

// PasswordStrength is the remote strength estimate for a password.
type PasswordStrength struct {
	Score       int
	Warning     string
	Suggestions []string
}

// Strong reports whether the score meets minScore.
func (p PasswordStrength) Strong(minScore int) bool {
	return p.Score >= minScore
}

// ValidScore reports whether score is inside the 0..MaxPasswordScore range.
func ValidScore(score int) bool {
	return score >= 0 && score <= MaxPasswordScore
}
