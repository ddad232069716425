// Package publish replaces the public dataset with a freshly built one
// without ever exposing a half-written state. Everything is staged into a
// scratch directory first; only when every staged write has succeeded are
// the files renamed into place. A crash before the swap leaves the public
// dataset byte-for-byte as it was.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/akarlsen/rollcall/internal/domain"
)

// Dataset file layout inside the output directory.
const (
	IndexFileName  = "index.json"
	RecordsDirName = "records"
)

// FileResult is the outcome for one dataset file, identified by its path
// relative to the output directory.
type FileResult struct {
	Path string `json:"path"`
	OK   bool   `json:"ok"`
	Err  string `json:"error,omitempty"`
}

// Result is the outcome of a publish attempt. AllSucceeded is true only
// when every file was staged and swapped into place.
type Result struct {
	AllSucceeded bool         `json:"allSucceeded"`
	Files        []FileResult `json:"files"`
}

// Publisher writes datasets with the stage/swap protocol. The clock is
// injected for deterministic staging names under test.
type Publisher struct {
	now func() time.Time
}

// NewPublisher creates a Publisher. A nil now falls back to time.Now.
func NewPublisher(now func() time.Time) *Publisher {
	if now == nil {
		now = time.Now
	}
	return &Publisher{now: now}
}

// Publish stages the index and all records under outputDir and atomically
// promotes them over the previous dataset.
//
// The protocol is lock, stage, gate, swap, cleanup. A failed staged write
// discards the whole scratch directory and leaves the public dataset
// untouched. A rename failure during the swap is reported per file but not
// undone: rename is as atomic as the filesystem offers, and a partial swap
// is surfaced as AllSucceeded=false rather than silently retried or rolled
// back. Lock contention is returned as ErrLocked before anything is staged.
func (p *Publisher) Publish(outputDir string, idx *domain.Index, records []*domain.Record) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	lk, err := acquireLock(outputDir, p.now())
	if err != nil {
		return nil, err
	}
	defer lk.release()

	stagingDir := filepath.Join(outputDir, fmt.Sprintf(".staging-%s-%s",
		p.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8]))
	if err := os.MkdirAll(filepath.Join(stagingDir, RecordsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory %s: %w", stagingDir, err)
	}

	files := p.stage(stagingDir, idx, records)

	for _, f := range files {
		if !f.OK {
			// Gate: the public dataset has not been touched yet, so a
			// staging failure only costs us the scratch directory.
			if err := os.RemoveAll(stagingDir); err != nil {
				return nil, fmt.Errorf("removing staging directory %s: %w", stagingDir, err)
			}
			return &Result{AllSucceeded: false, Files: files}, nil
		}
	}

	result := &Result{AllSucceeded: true, Files: files}
	if err := os.MkdirAll(filepath.Join(outputDir, RecordsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("creating records directory: %w", err)
	}
	for i := range result.Files {
		rel := result.Files[i].Path
		if err := os.Rename(filepath.Join(stagingDir, rel), filepath.Join(outputDir, rel)); err != nil {
			result.Files[i].OK = false
			result.Files[i].Err = fmt.Sprintf("swapping into place: %v", err)
			result.AllSucceeded = false
		}
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, fmt.Errorf("removing staging directory %s: %w", stagingDir, err)
	}
	return result, nil
}

// stage serializes the index and every record into the scratch directory,
// recording a per-file outcome keyed by the file's final relative path.
func (p *Publisher) stage(stagingDir string, idx *domain.Index, records []*domain.Record) []FileResult {
	files := make([]FileResult, 0, len(records)+1)
	files = append(files, stageJSON(stagingDir, IndexFileName, idx))
	for _, rec := range records {
		rel := filepath.Join(RecordsDirName, rec.ID+".json")
		files = append(files, stageJSON(stagingDir, rel, rec))
	}
	return files
}

func stageJSON(stagingDir, rel string, v any) FileResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return FileResult{Path: rel, Err: fmt.Sprintf("serializing: %v", err)}
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(stagingDir, rel), data, 0o644); err != nil {
		return FileResult{Path: rel, Err: fmt.Sprintf("writing staged file: %v", err)}
	}
	return FileResult{Path: rel, OK: true}
}
