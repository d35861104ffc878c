package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := app.Config.YAML()
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			fmt.Fprint(app.Out, strings.TrimRight(out, "\n")+"\n")
			return nil
		},
	}
}
