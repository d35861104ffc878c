package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/signup/internal/cli/formatter"
	"github.com/alexanderramin/signup/internal/db"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/repository"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var email string
	var wide bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded signup attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var attempts []*domain.SignupAttempt
			var err error
			if email != "" {
				attempts, err = app.Attempts.ListByEmail(ctx, email)
				if err == nil && limit > 0 && len(attempts) > limit {
					attempts = attempts[:limit]
				}
			} else {
				attempts, err = app.Attempts.ListRecent(ctx, limit)
			}
			if err != nil {
				return fmt.Errorf("listing attempts: %w", err)
			}

			total, err := app.Attempts.Count(ctx)
			if err != nil {
				return fmt.Errorf("counting attempts: %w", err)
			}
			if email != "" {
				total = len(attempts)
			}

			fmt.Fprint(app.Out, formatter.FormatHistory(attempts, total, app.now(), wide))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum attempts to show")
	cmd.Flags().StringVar(&email, "email", "", "only attempts for this email")
	cmd.Flags().BoolVarP(&wide, "wide", "w", false, "print full attempt IDs")

	cmd.AddCommand(newHistoryShowCmd(app), newHistoryPruneCmd(app))
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded attempt by its full ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Attempts.GetByID(cmd.Context(), args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no attempt with ID %q (history --wide lists full IDs)", args[0])
			}
			if err != nil {
				return fmt.Errorf("loading attempt: %w", err)
			}
			fmt.Fprint(app.Out, formatter.FormatAttempt(a, app.now()))
			return nil
		},
	}
}

func newHistoryPruneCmd(app *App) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative, got %d", keep)
			}
			removed, err := pruneAttempts(cmd.Context(), app.UoW, keep)
			if err != nil {
				return err
			}
			noun := "attempts"
			if removed == 1 {
				noun = "attempt"
			}
			fmt.Fprintf(app.Out, "Pruned %d %s, kept the newest %d.\n", removed, noun, keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 100, "number of newest attempts to keep")
	return cmd
}

// pruneAttempts deletes old attempts in one transaction and checks that the
// newest keep rows survived.
func pruneAttempts(ctx context.Context, uow db.UnitOfWork, keep int) (int64, error) {
	var removed int64
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteAttemptRepo(tx)
		before, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		removed, err = repo.Prune(ctx, keep)
		if err != nil {
			return err
		}
		after, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if want := min(before, keep); after != want {
			return fmt.Errorf("prune left %d attempts, want %d", after, want)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("pruning attempts: %w", err)
	}
	return removed, nil
}
