package cli

import (
	"strings"

	"github.com/alexanderramin/signup/internal/cli/formatter"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Region identifiers of the signup screen.
const (
	regionEmail         = "email"
	regionPassword      = "password"
	regionSubmit        = "submit"
	regionStatus        = "status"
	regionEmailError    = "email-error"
	regionPasswordError = "password-error"
)

const submitLabel = "Sign up"

var (
	labelStyle          = lipgloss.NewStyle().Foreground(formatter.ColorFg).Bold(true)
	errorStyle          = lipgloss.NewStyle().Foreground(formatter.ColorRed).PaddingLeft(2)
	buttonStyle         = lipgloss.NewStyle().Foreground(formatter.ColorFg).Border(lipgloss.RoundedBorder()).BorderForeground(formatter.ColorDim).Padding(0, 2)
	buttonFocusedStyle  = buttonStyle.BorderForeground(formatter.ColorHeader).Foreground(formatter.ColorHeader).Bold(true)
	buttonDisabledStyle = buttonStyle.Foreground(formatter.ColorDim)
)

// Region returns the plain text of one named region of the screen.
func (m signupModel) Region(id string) string {
	switch id {
	case regionEmail:
		return m.email.Value()
	case regionPassword:
		if m.reveal {
			return m.password.Value()
		}
		return strings.Repeat(string(m.password.EchoCharacter), len([]rune(m.password.Value())))
	case regionSubmit:
		if m.submitDisabled() {
			return submitLabel + " (disabled)"
		}
		return submitLabel
	case regionStatus:
		switch m.form.Status() {
		case domain.SubmitSuccess:
			return domain.StatusSuccessText
		case domain.SubmitError:
			return domain.StatusErrorText
		}
		return ""
	case regionEmailError:
		return m.fieldError(domain.FieldEmail)
	case regionPasswordError:
		return m.fieldError(domain.FieldPassword)
	}
	return ""
}

// fieldError is the message shown under a field. Untouched fields stay quiet.
func (m signupModel) fieldError(field domain.Field) string {
	if !m.form.Touched(field) {
		return ""
	}
	return m.form.Error(field)
}

func (m signupModel) submitDisabled() bool {
	return m.form.Submitting() || !m.form.Valid()
}

func (m signupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Create your account"))
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("Email", domain.FieldEmail, ""))
	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.errorLine(regionEmailError))

	hint := "ctrl+t show"
	if m.reveal {
		hint = "ctrl+t hide"
	}
	b.WriteString(m.fieldLabel("Password", domain.FieldPassword, hint))
	b.WriteString(m.password.View() + "\n")
	b.WriteString(m.strengthView())
	b.WriteString(m.errorLine(regionPasswordError))

	b.WriteString("\n")
	b.WriteString(m.submitView())
	b.WriteString("\n")

	if status := formatter.StatusLine(m.form.Status()); status != "" {
		b.WriteString(status)
		if err := m.form.SubmitErr(); err != nil && m.form.Status() == domain.SubmitError {
			b.WriteString(formatter.Dim("  " + err.Error()))
		}
		b.WriteString("\n")
	}
	if m.online == onlineNo {
		b.WriteString(formatter.StyleYellow.Render("! signup service unreachable, checks will stay pending") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m signupModel) fieldLabel(title string, field domain.Field, hint string) string {
	line := labelStyle.Render(title)
	switch {
	case m.checking(field):
		line += " " + m.spinner.View()
	case m.form.Touched(field):
		line += " " + formatter.VerdictMark(m.form.Verdict(field))
	}
	if hint != "" {
		line += "  " + formatter.Dim(hint)
	}
	return line + "\n"
}

func (m signupModel) errorLine(region string) string {
	msg := m.Region(region)
	if msg == "" {
		return ""
	}
	return errorStyle.Render(msg) + "\n"
}

// strengthView renders the strength meter and feedback once the service has
// scored the current password.
func (m signupModel) strengthView() string {
	if m.checking(domain.FieldPassword) {
		return formatter.Dim("  checking strength…") + "\n"
	}
	s, ok := m.form.PasswordStrength()
	if !ok {
		return ""
	}
	out := "  " + formatter.RenderStrength(s.Score, m.form.MinPasswordScore(), 3) + "\n"
	if fb := formatter.RenderFeedback(s); fb != "" {
		out += lipgloss.NewStyle().PaddingLeft(2).Render(fb) + "\n"
	}
	return out
}

func (m signupModel) submitView() string {
	style := buttonStyle
	switch {
	case m.submitDisabled():
		style = buttonDisabledStyle
	case m.focus == focusSubmit:
		style = buttonFocusedStyle
	}
	label := submitLabel
	if m.form.Submitting() {
		label = m.spinner.View() + " " + label
	}
	return style.Render(label)
}
