// Package pipeline sequences a full conversion run: discover input files,
// build records, aggregate them into an index, validate, and publish. The
// report is the only output; no stage talks to the user directly.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akarlsen/rollcall/internal/domain"
	"github.com/akarlsen/rollcall/internal/ingest"
	"github.com/akarlsen/rollcall/internal/merge"
	"github.com/akarlsen/rollcall/internal/parser"
	"github.com/akarlsen/rollcall/internal/publish"
	"github.com/akarlsen/rollcall/internal/report"
	"github.com/akarlsen/rollcall/internal/validate"
)

// DefaultExtension is the recognized input file extension.
const DefaultExtension = ".csv"

// Options configures one run.
type Options struct {
	InputDir  string
	OutputDir string

	// Extension filters input files; defaults to DefaultExtension.
	Extension string

	// Parser builds records from raw files; defaults to the CSV parser.
	Parser parser.Parser

	// Now is the time source for index stamps, staging names and the
	// report; defaults to time.Now.
	Now func() time.Time

	// DryRun stops at the validation gate and never touches OutputDir.
	DryRun bool

	// Concurrency bounds parallel file reads; defaults to 4. Results are
	// still folded in discovery order, so the run is deterministic.
	Concurrency int
}

func (o *Options) applyDefaults() {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.Parser == nil {
		o.Parser = parser.NewCSVParser()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
}

// Run executes the pipeline and always returns a report; errors of every
// kind surface in it rather than as a Go error.
func Run(ctx context.Context, opts Options) *report.Report {
	opts.applyDefaults()

	listing, err := ingest.Discover(opts.InputDir, opts.Extension)
	if err != nil {
		// Input errors are fatal before any work: short-circuit to a
		// failure report.
		return report.Build(report.BuildInput{
			Issues:      []validate.Issue{{Message: err.Error(), Severity: validate.SeverityError}},
			GeneratedAt: opts.Now(),
		})
	}

	var issues []validate.Issue
	for _, w := range listing.Warnings {
		issues = append(issues, validate.Issue{
			Type:     validate.TypeInputWarning,
			Message:  w,
			Severity: validate.SeverityWarning,
		})
	}

	results, err := buildAll(ctx, opts, listing.Files)
	if err != nil {
		issues = append(issues, validate.Issue{Message: err.Error(), Severity: validate.SeverityError})
		return report.Build(report.BuildInput{
			InputCount:  len(listing.Files),
			Issues:      issues,
			GeneratedAt: opts.Now(),
		})
	}

	var entries []merge.Entry
	for _, res := range results {
		for _, w := range res.Warnings {
			issues = append(issues, validate.Issue{
				File:     res.File,
				Message:  w,
				Severity: validate.SeverityWarning,
			})
		}
		if !res.OK {
			// A bad file never aborts the batch, but its errors still
			// gate the publish: the dataset is all-or-nothing.
			for _, e := range res.Errors {
				issues = append(issues, validate.Issue{
					File:     res.File,
					Type:     validate.TypeTransformError,
					Message:  e,
					Severity: validate.SeverityError,
				})
			}
			continue
		}
		entries = append(entries, merge.Entry{
			File:         res.File,
			Record:       res.Record,
			Contribution: res.Contribution,
		})
	}

	merger := merge.NewMerger(opts.Now)
	agg := merger.Aggregate(entries)
	for _, dup := range agg.Duplicates {
		issues = append(issues, validate.Issue{
			File:     dup.File,
			Type:     validate.TypeDuplicateRecord,
			Message:  dup.String(),
			Severity: validate.SeverityWarning,
		})
	}

	issues = append(issues, contractCheck(agg.Index, agg.Records)...)
	issues = append(issues, validate.CheckDataset(agg.Index, agg.Records)...)

	in := report.BuildInput{
		InputCount:     len(listing.Files),
		GeneratedCount: len(agg.Records),
		Issues:         issues,
		GeneratedAt:    opts.Now(),
	}

	if opts.DryRun {
		rep := report.Build(in)
		// Without a publish step the write-count taxonomy always reads
		// failure; a clean dry run is a success on its own terms.
		if !validate.HasErrors(issues) && len(agg.Records) > 0 {
			rep.Status = report.StatusSuccess
		}
		return rep
	}

	if validate.HasErrors(issues) {
		// Gate: nothing gets published past an error-severity issue.
		return report.Build(in)
	}

	pub := publish.NewPublisher(opts.Now)
	res, err := pub.Publish(opts.OutputDir, agg.Index, agg.Records)
	if err != nil {
		in.Issues = append(in.Issues, validate.Issue{
			Message:  err.Error(),
			Severity: validate.SeverityError,
		})
		return report.Build(in)
	}
	in.FileResults = res.Files
	in.GeneratedAt = opts.Now()
	return report.Build(in)
}

// buildAll reads and parses every discovered file. Reads run in parallel
// under a bounded errgroup, but each result lands at its file's discovery
// index, so downstream aggregation sees a stable order.
func buildAll(ctx context.Context, opts Options, files []ingest.FileRef) ([]*ingest.BuildResult, error) {
	builder := ingest.NewBuilder(opts.Parser)
	results := make([]*ingest.BuildResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, ref := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = builder.Build(ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building records: %w", err)
	}
	return results, nil
}

// contractCheck shape-validates the exact JSON that would be published by
// round-tripping the index and each record through encoding/json.
func contractCheck(idx *domain.Index, records []*domain.Record) []validate.Issue {
	var issues []validate.Issue
	issues = append(issues, validate.CheckIndexValue(publish.IndexFileName, roundTrip(idx))...)
	for _, rec := range records {
		file := path.Join(publish.RecordsDirName, rec.ID+".json")
		issues = append(issues, validate.CheckRecordValue(file, roundTrip(rec))...)
	}
	return issues
}

func roundTrip(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
