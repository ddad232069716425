package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscover_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x")
	writeFile(t, dir, "B.CSV", "x")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, "csv", "x") // no dot, not a match
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	listing, err := Discover(dir, ".csv")
	require.NoError(t, err)

	names := make([]string, 0, len(listing.Files))
	for _, f := range listing.Files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"a.csv", "B.CSV"}, names)
	assert.Empty(t, listing.Warnings)
}

func TestDiscover_ReportsSizeAndPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "hello")

	listing, err := Discover(dir, ".csv")
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, filepath.Join(dir, "a.csv"), listing.Files[0].Path)
	assert.Equal(t, int64(5), listing.Files[0].SizeBytes)
}

func TestDiscover_UnreadableCandidateBecomesWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv", "x")
	// A dangling symlink is a candidate that fails the readability probe.
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.csv")))

	listing, err := Discover(dir, ".csv")
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "good.csv", listing.Files[0].Name)
	require.Len(t, listing.Warnings, 1)
	assert.Contains(t, listing.Warnings[0], "broken.csv")
}

func TestDiscover_NoUsableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "x")

	_, err := Discover(dir, ".csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestDiscover_WarningsAloneDoNotSatisfyInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.csv")))

	_, err := Discover(dir, ".csv")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestDiscover_MissingDirectoryIsHardError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := Discover(missing, ".csv")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoInput)
	assert.Contains(t, err.Error(), missing)
}
