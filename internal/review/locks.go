package review

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LockManager hands out per-page lock files so concurrent reviewers, in this
// process or another, never work the same page twice. Locks are plain files
// so a crashed run leaves evidence the sweeper can clean up.
type LockManager struct {
	dir string
}

// NewLockManager manages locks under the given directory. The directory is
// created on first acquire.
func NewLockManager(dir string) *LockManager {
	return &LockManager{dir: dir}
}

// Dir returns the lock directory.
func (m *LockManager) Dir() string { return m.dir }

// LockName derives the lock file name for a page path: the base name with
// its extension swapped for ".lock".
func LockName(pagePath string) string {
	base := filepath.Base(pagePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".lock"
}

// Acquire atomically creates the lock for pagePath, stamped with the agent
// id and timestamp. It reports held=false when the lock already exists.
func (m *LockManager) Acquire(pagePath, agentID string, now time.Time) (bool, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return false, fmt.Errorf("review: create lock dir: %w", err)
	}

	path := filepath.Join(m.dir, LockName(pagePath))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("review: acquire lock: %w", err)
	}

	_, werr := fmt.Fprintf(f, "%s\n%s\n", agentID, now.Format(time.RFC3339))
	cerr := f.Close()
	if werr != nil {
		return false, fmt.Errorf("review: write lock: %w", werr)
	}
	if cerr != nil {
		return false, fmt.Errorf("review: write lock: %w", cerr)
	}
	return true, nil
}

// Release removes the lock for pagePath. A missing lock is not an error.
func (m *LockManager) Release(pagePath string) error {
	err := os.Remove(filepath.Join(m.dir, LockName(pagePath)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("review: release lock: %w", err)
	}
	return nil
}

// IsLocked reports whether a lock currently exists for pagePath.
func (m *LockManager) IsLocked(pagePath string) bool {
	_, err := os.Stat(filepath.Join(m.dir, LockName(pagePath)))
	return err == nil
}

// Holder reports the agent id recorded in the lock for pagePath.
func (m *LockManager) Holder(pagePath string) (string, bool) {
	agent, _, err := readLock(filepath.Join(m.dir, LockName(pagePath)))
	if err != nil {
		return "", false
	}
	return agent, true
}

// Sweep removes every leftover lock file and returns the removed names.
func (m *LockManager) Sweep() ([]string, error) {
	return m.sweep(func(string) bool { return true })
}

// SweepStale removes locks older than maxAge and returns the removed names.
// Age comes from the timestamp line inside the lock; unreadable content
// falls back to the file modification time.
func (m *LockManager) SweepStale(maxAge time.Duration, now time.Time) ([]string, error) {
	return m.sweep(func(path string) bool {
		_, stamp, err := readLock(path)
		if err != nil {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return false
			}
			stamp = info.ModTime()
		}
		return now.Sub(stamp) > maxAge
	})
}

func (m *LockManager) sweep(stale func(path string) bool) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.lock"))
	if err != nil {
		return nil, fmt.Errorf("review: list locks: %w", err)
	}

	removed := make([]string, 0, len(matches))
	for _, match := range matches {
		if !stale(match) {
			continue
		}
		if err := os.Remove(match); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("review: remove lock: %w", err)
		}
		removed = append(removed, filepath.Base(match))
	}
	return removed, nil
}

func readLock(path string) (agent string, stamp time.Time, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > 0 {
		agent = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		stamp, err = time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
		if err != nil {
			return agent, time.Time{}, err
		}
		return agent, stamp, nil
	}
	return agent, time.Time{}, errors.New("review: lock missing timestamp")
}
