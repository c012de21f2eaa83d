// Package flow coordinates batch single-file commits across cooperating
// processes: per-file advisory locks with staleness reclamation plus the
// orchestrator that walks candidate files through the decision engine.
package flow

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/seshat-dev/seshat/internal/git"
)

// LockTTL is how long a lock may exist before any process can reclaim
// it. A crashed agent must not permanently block a file.
const LockTTL = 30 * time.Minute

// lockDirName is the subdirectory of the git metadata dir holding locks.
const lockDirName = "seshat-flow-locks"

// ErrBusy signals that another live agent holds the lock. It is a
// routing signal ("skip this file now"), not a failure.
var ErrBusy = errors.New("locked by another agent")

// Handle identifies an acquired lock. Release is a no-op when the lock
// has since been reclaimed by another owner.
type Handle struct {
	Path     string // repository-relative path the lock covers
	lockFile string
	owner    string
}

// LockManager acquires per-file locks under the repository's git
// metadata directory. Lock files are the only cross-process shared
// state; all operations go through atomic create-exclusive so two
// racing processes can never both observe a lock as free.
type LockManager struct {
	git   *git.Client
	owner string
	now   func() time.Time
	ttl   time.Duration
}

// NewLockManager creates a manager with a fresh owner token. The token
// is unique per process instance so a reclaimed lock is never released
// by its previous owner.
func NewLockManager(g *git.Client) *LockManager {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return &LockManager{
		git:   g,
		owner: fmt.Sprintf("%d-%x", os.Getpid(), buf),
		now:   time.Now,
		ttl:   LockTTL,
	}
}

// Acquire tries to lock a repository-relative path. It returns ErrBusy
// when a live lock is held by a different owner; it never waits. A lock
// older than the TTL is deleted and reacquired through the same
// exclusive-create path, so only one of two racing reclaimers wins.
func (m *LockManager) Acquire(ctx context.Context, relPath string) (*Handle, error) {
	lockFile, err := m.lockPath(ctx, relPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockFile), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir lock dir: %w", err)
	}

	// Two attempts: the second is the post-reclamation retry.
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			content := fmt.Sprintf("%s\n%d\n%s\n", m.owner, m.now().Unix(), relPath)
			if _, werr := f.WriteString(content); werr != nil {
				f.Close()
				os.Remove(lockFile)
				return nil, fmt.Errorf("write lock file: %w", werr)
			}
			if cerr := f.Close(); cerr != nil {
				os.Remove(lockFile)
				return nil, fmt.Errorf("close lock file: %w", cerr)
			}
			return &Handle{Path: relPath, lockFile: lockFile, owner: m.owner}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !m.isStale(lockFile) {
			return nil, ErrBusy
		}
		// Stale: remove and loop back to the exclusive create. A racing
		// reclaimer may have removed it already; that's fine.
		if rerr := os.Remove(lockFile); rerr != nil && !os.IsNotExist(rerr) {
			return nil, fmt.Errorf("remove stale lock: %w", rerr)
		}
	}
	return nil, ErrBusy
}

// Release removes the lock only while the handle still owns it. After
// TTL-based reclamation by another process the file belongs to the new
// owner and is left untouched.
func (m *LockManager) Release(h *Handle) error {
	if h == nil {
		return nil
	}
	data, err := os.ReadFile(h.lockFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read lock file: %w", err)
	}
	owner, _, _ := strings.Cut(string(data), "\n")
	if owner != h.owner {
		return nil
	}
	if err := os.Remove(h.lockFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// isStale reports whether an existing lock has outlived the TTL. The
// acquisition timestamp stored in the file is authoritative; an
// unreadable or corrupt lock falls back to the file mtime.
func (m *LockManager) isStale(lockFile string) bool {
	age, ok := m.lockAge(lockFile)
	if !ok {
		return true
	}
	return age > m.ttl
}

func (m *LockManager) lockAge(lockFile string) (time.Duration, bool) {
	data, err := os.ReadFile(lockFile)
	if err == nil {
		lines := strings.SplitN(string(data), "\n", 3)
		if len(lines) >= 2 {
			if ts, perr := strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64); perr == nil {
				return m.now().Sub(time.Unix(ts, 0)), true
			}
		}
	}
	info, serr := os.Stat(lockFile)
	if serr != nil {
		return 0, false
	}
	return m.now().Sub(info.ModTime()), true
}

// lockPath computes the deterministic lock file for a path. The lock
// name hashes the full original relative path, so a deleted file (whose
// parents may also be gone) still maps to the same lock as long as the
// git dir is resolvable from a surviving ancestor.
func (m *LockManager) lockPath(ctx context.Context, relPath string) (string, error) {
	gitDir, err := m.git.GitDirFor(ctx, relPath)
	if err != nil {
		return "", fmt.Errorf("resolve git dir for %s: %w", relPath, err)
	}
	digest := sha1.Sum([]byte(relPath))
	return filepath.Join(gitDir, lockDirName, fmt.Sprintf("%x.lock", digest)), nil
}
