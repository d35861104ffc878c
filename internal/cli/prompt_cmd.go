package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/signup/internal/cli/formatter"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/alexanderramin/signup/internal/validate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// errNotSubmitted is returned when the form could not be submitted.
var errNotSubmitted = errors.New("signup not submitted")

func newPromptCmd(app *App) *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Sign up with line-by-line prompts instead of the full-screen form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrompt(cmd.Context(), app, accessible)
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "plain prompts suitable for screen readers")
	return cmd
}

// signupHuhTheme returns a huh theme using the formatter palette.
func signupHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed).SetString(" *")
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// credentialsForm collects credentials with the sync rules as validators.
func credentialsForm(app *App, creds *domain.Credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&creds.Email).
				Validate(validate.EmailRules(app.Config.Form.EmailMaxLength).Validate),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(validate.PasswordRules().Validate),
		),
	).WithTheme(signupHuhTheme()).WithShowHelp(false)
}

// runPrompt asks for credentials and submits them. Without a terminal the
// email and password are read as the first two lines of input, since
// huh's masked input needs a TTY.
func runPrompt(ctx context.Context, app *App, accessible bool) error {
	var creds domain.Credentials
	if !app.interactive() {
		var err error
		if creds, err = readCredentials(app.In, app.Err); err != nil {
			return fmt.Errorf("reading credentials: %w", err)
		}
		return submitCredentials(ctx, app, creds)
	}

	hf := credentialsForm(app, &creds).
		WithAccessible(accessible).
		WithInput(app.In).
		WithOutput(app.Out)
	if err := hf.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("reading credentials: %w", err)
	}
	return submitCredentials(ctx, app, creds)
}

// readCredentials reads an email line and then a password line from r,
// writing a label for each to prompts.
func readCredentials(r io.Reader, prompts io.Writer) (domain.Credentials, error) {
	sc := bufio.NewScanner(r)
	var creds domain.Credentials

	fmt.Fprint(prompts, "Email: ")
	email, err := readLine(sc)
	if err != nil {
		return creds, fmt.Errorf("email: %w", err)
	}
	fmt.Fprint(prompts, "Password: ")
	password, err := readLine(sc)
	if err != nil {
		return creds, fmt.Errorf("password: %w", err)
	}
	fmt.Fprintln(prompts)

	creds.Email = strings.TrimSpace(email)
	creds.Password = password
	return creds, nil
}

// readLine returns the next line from sc without its line ending.
func readLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSuffix(sc.Text(), "\r"), nil
}

// submitCredentials runs the remote checks and the signup for creds on the
// same form aggregate the TUI uses, blocking until each step settles.
func submitCredentials(ctx context.Context, app *App, creds domain.Credentials) error {
	prev := app.scheduler
	app.scheduler = immediateScheduler
	f := app.newForm(ctx)
	app.scheduler = prev

	cmd := tea.Batch(
		f.Set(domain.FieldEmail, creds.Email),
		f.Set(domain.FieldPassword, creds.Password),
	)
	if _, err := formatter.Spin(app.Err, app.interactive(), "checking…", func() (struct{}, error) {
		runFormCmds(f, cmd)
		return struct{}{}, nil
	}); err != nil {
		return err
	}

	if s, ok := f.PasswordStrength(); ok {
		fmt.Fprintf(app.Out, "Password strength %s\n", formatter.RenderStrength(s.Score, f.MinPasswordScore(), 2))
		if fb := formatter.RenderFeedback(s); fb != "" {
			fmt.Fprintln(app.Out, fb)
		}
	}

	switch f.State() {
	case domain.FormInvalid:
		var msgs []string
		for _, field := range domain.Fields {
			if msg := f.Error(field); msg != "" {
				fmt.Fprintf(app.Out, "%s %s\n", formatter.StyleRed.Render(string(field)+":"), msg)
				msgs = append(msgs, msg)
			}
		}
		return fmt.Errorf("%w: %s", errNotSubmitted, strings.Join(msgs, " "))
	case domain.FormPending:
		return fmt.Errorf("%w: signup service did not answer, try again", errNotSubmitted)
	}

	_, _ = formatter.Spin(app.Err, app.interactive(), "signing up…", func() (struct{}, error) {
		runFormCmds(f, f.Submit())
		return struct{}{}, nil
	})

	fmt.Fprintln(app.Out, formatter.StatusLine(f.Status()))
	if f.Status() == domain.SubmitError {
		return fmt.Errorf("signing up: %w", f.SubmitErr())
	}
	return nil
}

func immediateScheduler(_ time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// runFormCmds executes cmd and everything it leads to on the calling
// goroutine, feeding each message into f.
func runFormCmds(f *form.Form, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		queue = append(queue, f.Update(msg))
	}
}
