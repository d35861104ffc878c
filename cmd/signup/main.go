package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/signup/internal/cli"
	"github.com/alexanderramin/signup/internal/db"
	"github.com/alexanderramin/signup/internal/logging"
	"github.com/alexanderramin/signup/internal/remote"
	"github.com/alexanderramin/signup/internal/repository"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Open: open}

	// Detect interactive terminal: the full-screen form needs one.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	defer app.Close()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// open wires logging, storage and the remote client from app.Config.
func open(app *cli.App) error {
	log, err := logging.New(app.Config.Log)
	if err != nil {
		return err
	}
	app.Logger = log
	app.OnClose(func() error {
		_ = log.Sync()
		return nil
	})

	database, err := db.OpenDB(app.Config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	app.OnClose(database.Close)

	app.Attempts = repository.NewSQLiteAttemptRepo(database)
	app.UoW = db.NewSQLiteUnitOfWork(database)

	var observer remote.Observer = remote.NoopObserver{}
	if app.Config.API.LogCalls {
		observer = remote.NewLogObserver(log)
	}
	app.Service = remote.NewHTTPClient(app.Config.API, observer)

	log.Info("signup starting",
		zap.String("endpoint", app.Config.API.Endpoint),
		zap.String("db", app.Config.Storage.DBPath))
	return nil
}
