package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarlsen/rollcall/internal/domain"
	"github.com/akarlsen/rollcall/internal/publish"
	"github.com/akarlsen/rollcall/internal/report"
	"github.com/akarlsen/rollcall/internal/validate"
)

const (
	report1 = `session_id,group_id,group_name,date,member_id,member_name,duration_seconds
S1,G,Choir,2025-03-10,M1,Ada,3600
S1,G,Choir,2025-03-10,M2,Ben,1800
`
	report2 = `session_id,group_id,group_name,date,member_id,member_name,duration_seconds
S2,G,Choir,2025-03-11,M1,Ada,2700
`
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func runPipeline(t *testing.T, in, out string) *report.Report {
	t.Helper()
	return Run(context.Background(), Options{
		InputDir:  in,
		OutputDir: out,
		Now:       fixedClock,
	})
}

func loadIndex(t *testing.T, out string) *domain.Index {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, publish.IndexFileName))
	require.NoError(t, err)
	var idx domain.Index
	require.NoError(t, json.Unmarshal(data, &idx))
	return &idx
}

func TestRun_PublishesDataset(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	writeInput(t, in, "report2.csv", report2)

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Equal(t, 2, rep.Summary.InputCount)
	assert.Equal(t, 2, rep.Summary.GeneratedCount)
	assert.Equal(t, 3, rep.Summary.WrittenFileCount) // index + 2 records
	assert.Equal(t, 0, rep.Summary.FailedFileCount)
	assert.Empty(t, rep.Issues)

	idx := loadIndex(t, out)
	require.Len(t, idx.Groups, 1)
	assert.Equal(t, "G", idx.Groups[0].ID)
	assert.Equal(t, 8100, idx.Groups[0].TotalDurationSeconds)
	assert.Equal(t, []string{"S1", "S2"}, idx.Groups[0].RecordIDs)

	require.Len(t, idx.Members, 2)
	assert.Equal(t, 6300, idx.Members[0].TotalDurationSeconds) // Ada
	assert.Equal(t, 1800, idx.Members[1].TotalDurationSeconds) // Ben

	for _, id := range []string{"S1", "S2"} {
		_, err := os.Stat(filepath.Join(out, publish.RecordsDirName, id+".json"))
		assert.NoError(t, err)
	}
}

func TestRun_DuplicateFileRejectedButPublishSucceeds(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	writeInput(t, in, "report1_copy.csv", report1)

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Equal(t, 2, rep.Summary.InputCount)
	assert.Equal(t, 1, rep.Summary.GeneratedCount)

	var dups []validate.Issue
	for _, iss := range rep.Issues {
		if iss.Type == validate.TypeDuplicateRecord {
			dups = append(dups, iss)
		}
	}
	require.Len(t, dups, 1)
	assert.Equal(t, validate.SeverityWarning, dups[0].Severity)

	idx := loadIndex(t, out)
	assert.Equal(t, 5400, idx.Groups[0].TotalDurationSeconds)
	assert.Equal(t, []string{"S1"}, idx.Groups[0].RecordIDs)
}

func TestRun_TransformErrorGatesPublish(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	writeInput(t, in, "broken.csv", "session_id,group_id\nS9,G\n")

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusFailure, rep.Status)
	assert.Equal(t, 0, rep.Summary.WrittenFileCount)
	assert.True(t, validate.HasErrors(rep.Issues))

	// Gate enforcement: the publisher was never invoked.
	_, err := os.Stat(filepath.Join(out, publish.IndexFileName))
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_MissingInputDirShortCircuits(t *testing.T) {
	out := t.TempDir()
	rep := runPipeline(t, filepath.Join(t.TempDir(), "nope"), out)

	assert.Equal(t, report.StatusFailure, rep.Status)
	assert.Equal(t, 0, rep.Summary.InputCount)
	require.NotEmpty(t, rep.Issues)
	assert.Equal(t, validate.SeverityError, rep.Issues[0].Severity)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_EmptyInputDirShortCircuits(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusFailure, rep.Status)
	require.NotEmpty(t, rep.Issues)
	assert.Contains(t, rep.Issues[0].Message, "no input files")
}

func TestRun_OneBadFileDoesNotStopOthers(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "bad.csv", "not,a,report\n")
	writeInput(t, in, "report1.csv", report1)
	writeInput(t, in, "report2.csv", report2)

	rep := runPipeline(t, in, out)
	// The batch is still gated, but both good files were processed.
	assert.Equal(t, report.StatusFailure, rep.Status)
	assert.Equal(t, 3, rep.Summary.InputCount)
	assert.Equal(t, 2, rep.Summary.GeneratedCount)
}

func TestRun_DryRunNeverTouchesOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)

	rep := Run(context.Background(), Options{
		InputDir:  in,
		OutputDir: out,
		Now:       fixedClock,
		DryRun:    true,
	})

	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Equal(t, 1, rep.Summary.GeneratedCount)
	assert.Empty(t, rep.FileResults)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_DryRunWithErrorsFails(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "bad.csv", "nope\n")

	rep := Run(context.Background(), Options{InputDir: in, DryRun: true, Now: fixedClock})
	assert.Equal(t, report.StatusFailure, rep.Status)
}

func TestRun_IdempotentReporting(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	writeInput(t, in, "report2.csv", report2)

	first := runPipeline(t, in, out)
	second := runPipeline(t, in, out)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRun_LockContentionReported(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	require.NoError(t, os.WriteFile(filepath.Join(out, publish.LockFileName), []byte("pid=1\n"), 0o644))

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusFailure, rep.Status)

	found := false
	for _, iss := range rep.Issues {
		if iss.Severity == validate.SeverityError {
			assert.Contains(t, iss.Message, "already running")
			found = true
		}
	}
	assert.True(t, found)

	_, err := os.Stat(filepath.Join(out, publish.IndexFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_UnreadableCandidateIsWarning(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "report1.csv", report1)
	require.NoError(t, os.Symlink(filepath.Join(in, "missing"), filepath.Join(in, "broken.csv")))

	rep := runPipeline(t, in, out)
	assert.Equal(t, report.StatusSuccess, rep.Status)

	var warns []validate.Issue
	for _, iss := range rep.Issues {
		if iss.Type == validate.TypeInputWarning {
			warns = append(warns, iss)
		}
	}
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "broken.csv")
}
