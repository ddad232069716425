package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarlsen/rollcall/internal/cli/formatter"
	"github.com/akarlsen/rollcall/internal/pipeline"
	"github.com/akarlsen/rollcall/internal/report"
)

func newCheckCmd(app *App) *cobra.Command {
	var inputDir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate report files without publishing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := inputDir
			if in == "" {
				in = app.Config.InputDir
			}
			if in == "" {
				return errors.New("no input directory (use --input or set input_dir in rollcall.yaml)")
			}

			rep := pipeline.Run(cmd.Context(), pipeline.Options{
				InputDir:  in,
				Extension: app.Config.Extension,
				DryRun:    true,
			})

			fmt.Print(formatter.FormatReport(rep))
			if rep.Status == report.StatusFailure {
				return errors.New("validation found blocking issues")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of attendance report files")

	return cmd
}
