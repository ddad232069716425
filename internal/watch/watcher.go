// Package watch re-runs the conversion pipeline whenever the input
// directory changes.
package watch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/akarlsen/rollcall/internal/pipeline"
	"github.com/akarlsen/rollcall/internal/report"
)

// Watcher monitors the input directory for new or changed report files and
// triggers debounced pipeline runs. Each finished run's report goes to the
// OnReport callback.
type Watcher struct {
	opts     pipeline.Options
	debounce time.Duration
	onReport func(*report.Report)
}

// New creates a Watcher. onReport must not be nil; debounce <= 0 gets a
// 500ms default.
func New(opts pipeline.Options, debounce time.Duration, onReport func(*report.Report)) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{opts: opts, debounce: debounce, onReport: onReport}
}

// Run performs an initial pipeline run, then blocks watching the input
// directory until ctx is canceled. Bursts of filesystem events within the
// debounce window collapse into a single re-run.
func (w *Watcher) Run(ctx context.Context) error {
	w.onReport(pipeline.Run(ctx, w.opts))

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.opts.InputDir); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-fw.Events:
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && w.matches(evt.Name) {
				pending = time.After(w.debounce)
			}
		case err := <-fw.Errors:
			log.Printf("watch error: %v", err)
		case <-pending:
			pending = nil
			w.onReport(pipeline.Run(ctx, w.opts))
		}
	}
}

func (w *Watcher) matches(name string) bool {
	ext := w.opts.Extension
	if ext == "" {
		ext = pipeline.DefaultExtension
	}
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}
