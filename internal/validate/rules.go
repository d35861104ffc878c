// Package validate holds the synchronous field rules. Rules are pure
// functions of the field value and never touch the network.
package validate

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Failure is a named rule violation with its user-facing message.
type Failure struct {
	Rule    string
	Message string
}

// Rule checks a value and reports a failure when the value violates it.
type Rule func(value string) (Failure, bool)

// Rules is an ordered rule set for one field.
type Rules []Rule

// Run evaluates every rule and returns all failures in rule order.
func (rs Rules) Run(value string) []Failure {
	var failures []Failure
	for _, rule := range rs {
		if f, failed := rule(value); failed {
			failures = append(failures, f)
		}
	}
	return failures
}

// First returns the first failure, if any.
func (rs Rules) First(value string) (Failure, bool) {
	for _, rule := range rs {
		if f, failed := rule(value); failed {
			return f, true
		}
	}
	return Failure{}, false
}

// Validate adapts the rule set to the func(string) error shape huh inputs expect.
func (rs Rules) Validate(value string) error {
	if f, failed := rs.First(value); failed {
		return errors.New(f.Message)
	}
	return nil
}

// Required fails on an empty value.
func Required(msg string) Rule {
	return func(value string) (Failure, bool) {
		if value == "" {
			return Failure{Rule: "required", Message: msg}, true
		}
		return Failure{}, false
	}
}

// MaxLength fails when the value is n runes or longer.
func MaxLength(n int, msg string) Rule {
	return func(value string) (Failure, bool) {
		if utf8.RuneCountInString(value) >= n {
			return Failure{Rule: "maxLength", Message: msg}, true
		}
		return Failure{}, false
	}
}

// Pattern fails when a non-empty value does not match re.
// Empty values are left to Required.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return func(value string) (Failure, bool) {
		if value != "" && !re.MatchString(value) {
			return Failure{Rule: "pattern", Message: msg}, true
		}
		return Failure{}, false
	}
}
