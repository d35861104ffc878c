package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/alexanderramin/signup/internal/cli/formatter"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/alexanderramin/signup/internal/validate"
	"github.com/spf13/cobra"
)

// errCheckFailed marks a value the checks rejected.
var errCheckFailed = errors.New("check failed")

func newCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one remote check without signing up",
	}
	cmd.AddCommand(
		newCheckEmailCmd(app),
		newCheckPasswordCmd(app),
		newCheckHealthCmd(app),
	)
	return cmd
}

func newCheckEmailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "email <address>",
		Short: "Check that an email is well formed and not taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			if f, failed := validate.EmailRules(app.Config.Form.EmailMaxLength).First(email); failed {
				return fmt.Errorf("%w: %s", errCheckFailed, f.Message)
			}

			taken, err := formatter.Spin(app.Err, app.interactive(), "checking email…", func() (bool, error) {
				return app.Service.IsEmailTaken(cmd.Context(), email)
			})
			if err != nil {
				return fmt.Errorf("checking email: %w", err)
			}
			if taken {
				fmt.Fprintf(app.Out, "%s %s\n", formatter.StyleRed.Render("✖"), form.MsgEmailTaken)
				return fmt.Errorf("%w: %s", errCheckFailed, form.MsgEmailTaken)
			}
			fmt.Fprintf(app.Out, "%s %s is available\n", formatter.StyleGreen.Render("✔"), email)
			return nil
		},
	}
}

func newCheckPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "password [password|-]",
		Short: "Score a password with the strength service",
		Long: `Score a password with the strength service.

Without an argument, or with "-", the password is read as one line from
stdin so it stays out of the process list and shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 && args[0] != "-" {
				password = args[0]
			} else {
				line, err := readLine(bufio.NewScanner(app.In))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = line
			}
			if f, failed := validate.PasswordRules().First(password); failed {
				return fmt.Errorf("%w: %s", errCheckFailed, f.Message)
			}

			s, err := formatter.Spin(app.Err, app.interactive(), "scoring password…", func() (domain.PasswordStrength, error) {
				return app.Service.PasswordStrength(cmd.Context(), password)
			})
			if err != nil {
				return fmt.Errorf("checking password strength: %w", err)
			}

			minScore := app.Config.Form.MinPasswordScore
			fmt.Fprintln(app.Out, formatter.RenderStrength(s.Score, minScore, 2))
			if fb := formatter.RenderFeedback(s); fb != "" {
				fmt.Fprintln(app.Out, fb)
			}
			if !s.Strong(minScore) {
				return fmt.Errorf("%w: %s", errCheckFailed, form.MsgPasswordWeak)
			}
			return nil
		},
	}
}

func newCheckHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the signup service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.Service.Available(cmd.Context()) {
				return fmt.Errorf("%w: %s is unreachable", errCheckFailed, app.Config.API.Endpoint)
			}
			fmt.Fprintf(app.Out, "%s %s is up\n", formatter.StyleGreen.Render("✔"), app.Config.API.Endpoint)
			return nil
		},
	}
}
