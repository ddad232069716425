package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarlsen/rollcall/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.History == nil {
				return errors.New("run history is not available (no history database)")
			}

			runs, err := app.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded yet")
				return nil
			}

			fmt.Print(formatter.FormatRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}
