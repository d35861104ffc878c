package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/signup/internal/checker"
	"github.com/alexanderramin/signup/internal/config"
	"github.com/alexanderramin/signup/internal/db"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/alexanderramin/signup/internal/remote"
	"github.com/alexanderramin/signup/internal/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// App holds the configuration and collaborators used by CLI commands.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Service  remote.Client
	Attempts repository.AttemptRepo
	UoW      db.UnitOfWork

	// IsInteractive reports whether stdin is a terminal. The root command
	// runs the full-screen form when it returns true.
	IsInteractive func() bool

	// Open wires the collaborators above from Config once flags are parsed.
	// Tests leave it nil and set the fields directly.
	Open func(app *App) error

	In  io.Reader
	Out io.Writer
	Err io.Writer
	Now func() time.Time

	closers   []func() error
	scheduler checker.Scheduler
}

// OnClose registers fn to run when the command finishes.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close runs registered closers in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// newForm builds a form wired to the app's service, history and logger.
func (a *App) newForm(ctx context.Context) *form.Form {
	opts := []form.Option{
		form.WithLogger(a.logger()),
		form.WithContext(ctx),
		form.WithClock(a.now),
	}
	if a.Attempts != nil {
		opts = append(opts, form.WithRecorder(a.Attempts))
	}
	if a.scheduler != nil {
		opts = append(opts, form.WithScheduler(a.scheduler))
	}
	return form.New(a.Service, a.Config.Form, opts...)
}

type rootFlags struct {
	configPath string
	endpoint   string
	dbPath     string
	logFile    string
}

// NewRootCmd creates the top-level "signup" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.In == nil {
		app.In = os.Stdin
	}
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}

	var flags rootFlags
	root := &cobra.Command{
		Use:           "signup",
		Short:         "Create an account with live email and password checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Flags(), flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return runPrompt(cmd.Context(), app, false)
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	pf.StringVar(&flags.endpoint, "endpoint", "", "signup service base URL")
	pf.StringVar(&flags.dbPath, "db", "", "attempt history database path")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(
		newPromptCmd(app),
		newCheckCmd(app),
		newHistoryCmd(app),
		newConfigCmd(app),
	)
	return root
}

// setup loads configuration, applies explicit flags over it and opens the
// collaborators. Without an Open hook the App is used as given.
func (a *App) setup(fs *pflag.FlagSet, flags rootFlags) error {
	if a.Open == nil {
		return nil
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if fs.Changed("endpoint") {
		cfg.API.Endpoint = flags.endpoint
	}
	if fs.Changed("db") {
		cfg.Storage.DBPath = flags.dbPath
	}
	if fs.Changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.Config = cfg
	return a.Open(a)
}
