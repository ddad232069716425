// Package report reduces a pipeline run to one status and a summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akarlsen/rollcall/internal/publish"
	"github.com/akarlsen/rollcall/internal/validate"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess: every file written, no error-severity issues, at
	// least one record generated.
	StatusSuccess Status = "success"
	// StatusPartial: some files written alongside failures or issues.
	StatusPartial Status = "partial"
	// StatusFailure: nothing was written, whatever the reason.
	StatusFailure Status = "failure"
)

// Summary carries the headline counts of a run.
type Summary struct {
	InputCount       int `json:"inputCount"`
	GeneratedCount   int `json:"generatedCount"`
	WrittenFileCount int `json:"writtenFileCount"`
	FailedFileCount  int `json:"failedFileCount"`
}

// Report is the single user-visible product of a pipeline run. Everything
// the run found, wrote, or refused to write is in here; there is no side
// channel.
type Report struct {
	Status      Status               `json:"status"`
	Summary     Summary              `json:"summary"`
	FileResults []publish.FileResult `json:"fileResults"`
	Issues      []validate.Issue     `json:"issues"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// BuildInput is everything the status derivation needs.
type BuildInput struct {
	InputCount     int
	GeneratedCount int
	FileResults    []publish.FileResult
	Issues         []validate.Issue
	GeneratedAt    time.Time
}

// Build derives the status taxonomy: failure when zero files were written,
// success when nothing at all went wrong and something was generated,
// partial for every mix in between.
func Build(in BuildInput) *Report {
	written, failed := 0, 0
	for _, f := range in.FileResults {
		if f.OK {
			written++
		} else {
			failed++
		}
	}

	var status Status
	switch {
	case written == 0:
		status = StatusFailure
	case failed == 0 && !validate.HasErrors(in.Issues) && in.GeneratedCount > 0:
		status = StatusSuccess
	default:
		status = StatusPartial
	}

	return &Report{
		Status: status,
		Summary: Summary{
			InputCount:       in.InputCount,
			GeneratedCount:   in.GeneratedCount,
			WrittenFileCount: written,
			FailedFileCount:  failed,
		},
		FileResults: in.FileResults,
		Issues:      in.Issues,
		GeneratedAt: in.GeneratedAt,
	}
}

// Format renders the report as indented plain text.
func (r *Report) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Summary:\n")
	fmt.Fprintf(&b, "  input files:    %d\n", r.Summary.InputCount)
	fmt.Fprintf(&b, "  records built:  %d\n", r.Summary.GeneratedCount)
	fmt.Fprintf(&b, "  files written:  %d\n", r.Summary.WrittenFileCount)
	fmt.Fprintf(&b, "  files failed:   %d\n", r.Summary.FailedFileCount)

	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, "Issues (%d):\n", len(r.Issues))
		for _, iss := range r.Issues {
			fmt.Fprintf(&b, "  [%s] %s\n", iss.Severity, issueLocation(iss)+iss.Message)
		}
	}

	var failures []publish.FileResult
	for _, f := range r.FileResults {
		if !f.OK {
			failures = append(failures, f)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintf(&b, "Failed files (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.Path, f.Err)
		}
	}

	return b.String()
}

func issueLocation(iss validate.Issue) string {
	switch {
	case iss.File != "" && iss.Field != "":
		return iss.File + " " + iss.Field + ": "
	case iss.File != "":
		return iss.File + ": "
	case iss.Field != "":
		return iss.Field + ": "
	}
	return ""
}

// SaveToFile persists the report as indented JSON.
func (r *Report) SaveToFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report file %s: %w", path, err)
	}
	return nil
}
