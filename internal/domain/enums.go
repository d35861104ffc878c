package domain

// Field identifies a form field. The string value doubles as the element
// identifier used by the TUI and tests.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Fields lists the signup fields in display order.
var Fields = []Field{FieldEmail, FieldPassword}

// ErrorID returns the identifier of the field's error-message region.
func (f Field) ErrorID() string {
	return string(f) + "-error"
}

type VerdictState string

const (
	VerdictPending VerdictState = "pending"
	VerdictValid   VerdictState = "valid"
	VerdictInvalid VerdictState = "invalid"
)

// FormState is the aggregate validity of the whole form.
type FormState string

const (
	FormInvalid FormState = "invalid"
	FormPending FormState = "pending"
	FormValid   FormState = "valid"
)

type SubmitStatus string

const (
	SubmitIdle    SubmitStatus = "idle"
	SubmitSuccess SubmitStatus = "success"
	SubmitError   SubmitStatus = "error"
)

// Status region texts.
const (
	StatusSuccessText = "Sign-up successful!"
	StatusErrorText   = "Sign-up error"
)
