package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/akarlsen/rollcall/internal/pipeline"
	"github.com/akarlsen/rollcall/internal/report"
	"github.com/akarlsen/rollcall/internal/watch"
)

func newWatchCmd(app *App) *cobra.Command {
	var inputDir, outputDir string
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the conversion whenever the input directory changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := resolveDirs(app, inputDir, outputDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := pipeline.Options{
				InputDir:  in,
				OutputDir: out,
				Extension: app.Config.Extension,
			}

			if plain || !app.IsInteractive() {
				return watchPlain(ctx, opts, app.Config.WatchDebounce)
			}
			return watchTUI(ctx, opts, app.Config.WatchDebounce, in)
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of attendance report files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Public dataset directory")
	cmd.Flags().BoolVar(&plain, "plain", false, "Line output instead of the interactive view")

	return cmd
}

func watchPlain(ctx context.Context, opts pipeline.Options, debounce time.Duration) error {
	w := watch.New(opts, debounce, func(rep *report.Report) {
		log.Printf("run finished: %s (wrote %d, failed %d, issues %d)",
			rep.Status, rep.Summary.WrittenFileCount, rep.Summary.FailedFileCount, len(rep.Issues))
		fmt.Print(rep.Format())
	})
	return w.Run(ctx)
}

// watchTUI runs the watcher behind a bubbletea view. The watcher goroutine
// feeds finished reports into the program; quitting the program cancels the
// watcher.
func watchTUI(ctx context.Context, opts pipeline.Options, debounce time.Duration, inputDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(inputDir))

	w := watch.New(opts, debounce, func(rep *report.Report) {
		p.Send(reportMsg{report: rep})
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		<-ctx.Done()
		p.Send(stopMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-errCh
		return err
	}
	cancel()
	return <-errCh
}
