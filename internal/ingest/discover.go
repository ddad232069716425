// Package ingest finds attendance report files and turns each one into a
// record plus its merge contribution.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoInput is returned when a directory listing yields zero usable files,
// even if warnings explain why candidates were dropped.
var ErrNoInput = errors.New("no input files found")

// FileRef identifies one candidate input file.
type FileRef struct {
	Path      string
	Name      string
	SizeBytes int64
}

// Listing is the result of discovering a directory: the usable files in
// directory order, plus warnings for candidates that were dropped.
type Listing struct {
	Files    []FileRef
	Warnings []string
}

// Discover enumerates report files in dir. Only regular files whose name
// ends in ext (case-insensitive) are candidates; directories are skipped
// silently. A candidate that cannot be opened for reading becomes a warning
// rather than an error and is excluded from the listing. An unlistable
// directory is a hard error naming the path; an empty result is ErrNoInput.
func Discover(dir, ext string) (*Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing input directory %s: %w", dir, err)
	}

	listing := &Listing{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), strings.ToLower(ext)) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			listing.Warnings = append(listing.Warnings, fmt.Sprintf("%s: cannot stat: %v", entry.Name(), err))
			continue
		}

		// Probe readability now so permission problems show up as
		// discovery warnings instead of mid-batch build errors.
		f, err := os.Open(path)
		if err != nil {
			listing.Warnings = append(listing.Warnings, fmt.Sprintf("%s: not readable: %v", entry.Name(), err))
			continue
		}
		f.Close()

		listing.Files = append(listing.Files, FileRef{
			Path:      path,
			Name:      entry.Name(),
			SizeBytes: info.Size(),
		})
	}

	if len(listing.Files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, dir)
	}
	return listing, nil
}
