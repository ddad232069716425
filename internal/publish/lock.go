package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LockFileName is the fixed lock marker path inside the output directory.
// Its presence means a publish against that directory is in progress.
const LockFileName = "publish.lock"

// ErrLocked means another publish holds the lock. There is no queuing or
// retry; a contending invocation fails fast and the caller decides what to
// do about it.
var ErrLocked = errors.New("another publish is already running")

// lock is a crash-safe filesystem mutex: O_EXCL creation either succeeds
// atomically or tells us someone else got there first.
type lock struct {
	path string
}

// acquireLock creates the lock marker in dir, writing the holder's pid and
// start time so an operator can judge whether a leftover lock is stale.
func acquireLock(dir string, now time.Time) (*lock, error) {
	path := filepath.Join(dir, LockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (lock file %s exists)", ErrLocked, path)
		}
		return nil, fmt.Errorf("creating lock file %s: %w", path, err)
	}
	fmt.Fprintf(f, "pid=%d started=%s\n", os.Getpid(), now.UTC().Format(time.RFC3339))
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file %s: %w", path, err)
	}
	return &lock{path: path}, nil
}

// release removes the lock marker. Safe to call once, on every outcome.
func (l *lock) release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file %s: %w", l.path, err)
	}
	return nil
}
