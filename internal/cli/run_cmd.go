package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarlsen/rollcall/internal/cli/formatter"
	"github.com/akarlsen/rollcall/internal/pipeline"
	"github.com/akarlsen/rollcall/internal/publish"
	"github.com/akarlsen/rollcall/internal/report"
)

func newRunCmd(app *App) *cobra.Command {
	var inputDir, outputDir, reportFile string
	var yes, noHistory bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert report files and atomically publish the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := resolveDirs(app, inputDir, outputDir)
			if err != nil {
				return err
			}

			if !yes && app.IsInteractive() && datasetExists(out) {
				ok, err := confirmReplace(out)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("aborted, existing dataset left untouched")
					return nil
				}
			}

			started := time.Now()
			rep := pipeline.Run(cmd.Context(), pipeline.Options{
				InputDir:  in,
				OutputDir: out,
				Extension: app.Config.Extension,
			})

			if reportFile != "" {
				if err := rep.SaveToFile(reportFile); err != nil {
					return err
				}
			}
			recordRun(cmd, app, noHistory, rep, started, in, out)

			fmt.Print(formatter.FormatReport(rep))
			if rep.Status == report.StatusFailure {
				return errors.New("run finished with status failure")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of attendance report files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Public dataset directory")
	cmd.Flags().StringVar(&reportFile, "report-file", "", "Also save the report as JSON to this path")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing dataset without asking")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip journaling this run")

	return cmd
}

// resolveDirs applies flag > config precedence and insists on both dirs.
func resolveDirs(app *App, inputDir, outputDir string) (string, string, error) {
	if inputDir == "" {
		inputDir = app.Config.InputDir
	}
	if outputDir == "" {
		outputDir = app.Config.OutputDir
	}
	if inputDir == "" {
		return "", "", errors.New("no input directory (use --input or set input_dir in rollcall.yaml)")
	}
	if outputDir == "" {
		return "", "", errors.New("no output directory (use --output or set output_dir in rollcall.yaml)")
	}
	return inputDir, outputDir, nil
}

func datasetExists(outputDir string) bool {
	_, err := os.Stat(filepath.Join(outputDir, publish.IndexFileName))
	return err == nil
}

// recordRun journals the run; journal problems are reported but never fail
// the conversion itself.
func recordRun(cmd *cobra.Command, app *App, noHistory bool, rep *report.Report, started time.Time, in, out string) {
	if app.History == nil || noHistory {
		return
	}
	if _, err := app.History.Record(cmd.Context(), rep, started, in, out); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run history: %v\n", err)
	}
}
