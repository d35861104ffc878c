package validate

import (
	"fmt"
	"regexp"
)

// DefaultEmailMaxLength bounds the email field.
const DefaultEmailMaxLength = 100

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailFormat      = "Email is invalid format"
	MsgPasswordRequired = "Password is required"
)

// EmailPattern accepts a local part, an @ and a dotted domain.
var EmailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$")

// MaxLengthMessage is the failure message for a field limited to n runes.
func MaxLengthMessage(n int) string {
	return fmt.Sprintf("Max length is %d", n)
}

// EmailRules returns the sync rules for the email field.
// A non-positive maxLen falls back to DefaultEmailMaxLength.
func EmailRules(maxLen int) Rules {
	if maxLen <= 0 {
		maxLen = DefaultEmailMaxLength
	}
	return Rules{
		Required(MsgEmailRequired),
		MaxLength(maxLen, MaxLengthMessage(maxLen)),
		Pattern(EmailPattern, MsgEmailFormat),
	}
}

// PasswordRules returns the sync rules for the password field.
func PasswordRules() Rules {
	return Rules{Required(MsgPasswordRequired)}
}
