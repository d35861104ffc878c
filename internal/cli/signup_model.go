package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focus targets, in tab order.
type focusTarget int

const (
	focusEmail focusTarget = iota
	focusPassword
	focusSubmit
	focusCount
)

type onlineState int

const (
	onlineUnknown onlineState = iota
	onlineYes
	onlineNo
)

// availabilityMsg reports the result of the startup health check.
type availabilityMsg struct{ online bool }

// signupModel is the full-screen signup form. All form mutation happens in
// Update; remote work runs in the commands it returns.
type signupModel struct {
	ctx  context.Context
	form *form.Form
	ping func(context.Context) bool

	email    textinput.Model
	password textinput.Model
	focus    focusTarget
	reveal   bool

	keys     signupKeyMap
	help     help.Model
	spinner  spinner.Model
	spinning bool

	online   onlineState
	width    int
	quitting bool
}

func newSignupModel(ctx context.Context, f *form.Form, ping func(context.Context) bool) signupModel {
	email := newFieldInput("you@example.com")
	email.Focus()

	password := newFieldInput("password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	return signupModel{
		ctx:      ctx,
		form:     f,
		ping:     ping,
		email:    email,
		password: password,
		keys:     newSignupKeyMap(),
		help:     help.New(),
		spinner:  sp,
	}
}

func newFieldInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m signupModel) Init() tea.Cmd {
	if m.ping == nil {
		return nil
	}
	ctx, ping := m.ctx, m.ping
	return func() tea.Msg {
		return availabilityMsg{online: ping(ctx)}
	}
}

func (m signupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case availabilityMsg:
		m.online = onlineNo
		if msg.online {
			m.online = onlineYes
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case form.SubmitResultMsg:
		m.form.Update(msg)
		m.syncInputs()
		if msg.Err == nil {
			m.setFocus(focusEmail)
		}

	default:
		cmd = m.form.Update(msg)
	}
	spin := m.startSpinner()
	return m, tea.Batch(cmd, spin)
}

func (m signupModel) handleKey(msg tea.KeyMsg) (signupModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case key.Matches(msg, m.keys.Reveal):
		m.reveal = !m.reveal
		if m.reveal {
			m.password.EchoMode = textinput.EchoNormal
		} else {
			m.password.EchoMode = textinput.EchoPassword
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.form.Submit()

	case key.Matches(msg, m.keys.Retry):
		return m, m.form.Retry()

	case key.Matches(msg, m.keys.Enter):
		if m.focus == focusSubmit {
			return m, m.form.Submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
		return m, tea.Batch(cmd, m.form.Set(domain.FieldEmail, m.email.Value()))
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
		return m, tea.Batch(cmd, m.form.Set(domain.FieldPassword, m.password.Value()))
	}
	return m, nil
}

func (m *signupModel) setFocus(f focusTarget) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case focusEmail:
		m.email.Focus()
	case focusPassword:
		m.password.Focus()
	}
}

// syncInputs copies form values back into the inputs after the form
// changed them itself, e.g. on reset after a successful signup.
func (m *signupModel) syncInputs() {
	if v := m.form.Value(domain.FieldEmail); m.email.Value() != v {
		m.email.SetValue(v)
	}
	if v := m.form.Value(domain.FieldPassword); m.password.Value() != v {
		m.password.SetValue(v)
	}
}

// busy reports whether anything visible is waiting on the service.
func (m signupModel) busy() bool {
	if m.form.Submitting() {
		return true
	}
	for _, f := range domain.Fields {
		if m.checking(f) {
			return true
		}
	}
	return false
}

// checking reports whether field passed its sync rules and awaits a remote verdict.
func (m signupModel) checking(field domain.Field) bool {
	return m.form.Value(field) != "" &&
		len(m.form.Failures(field)) == 0 &&
		m.form.Verdict(field).IsPending()
}

func (m *signupModel) startSpinner() tea.Cmd {
	if m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// runTUI runs the full-screen form until the user quits.
func runTUI(ctx context.Context, app *App) error {
	m := newSignupModel(ctx, app.newForm(ctx), app.Service.Available)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(app.In),
		tea.WithOutput(app.Out),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running signup form: %w", err)
	}
	return nil
}
