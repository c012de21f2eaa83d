package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ChangeKind describes how a path differs from HEAD.
type ChangeKind string

const (
	Added     ChangeKind = "added"
	Modified  ChangeKind = "modified"
	Deleted   ChangeKind = "deleted"
	Renamed   ChangeKind = "renamed"
	Copied    ChangeKind = "copied"
	Untracked ChangeKind = "untracked"
)

// FileStatus is one entry of a porcelain status listing.
type FileStatus struct {
	Path string
	Kind ChangeKind
}

// GitError carries the failing git invocation and its combined output so
// callers can classify transient conditions (index contention, missing
// pathspecs) without string-matching at every call site.
type GitError struct {
	Args   []string
	Output string
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Client runs git operations against a single working tree.
type Client struct {
	dir    string
	runner CommandRunner
}

// NewClient creates a Client rooted at dir. A nil runner uses the
// real git binary.
func NewClient(dir string, runner CommandRunner) *Client {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Client{dir: dir, runner: runner}
}

// Dir returns the working tree root the client operates on.
func (c *Client) Dir() string {
	return c.dir
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, code, err := c.runner.Run(ctx, c.dir, args...)
	if err != nil {
		return "", fmt.Errorf("exec git %s: %w", strings.Join(args, " "), err)
	}
	if code != 0 {
		return "", &GitError{Args: args, Output: stderr + stdout}
	}
	return stdout, nil
}

// Status returns the working tree status, optionally restricted to paths.
func (c *Client) Status(ctx context.Context, paths ...string) ([]FileStatus, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parsePorcelain(out), nil
}

// parsePorcelain converts `git status --porcelain` output into FileStatus
// entries. The index column wins over the worktree column once a path is
// staged; untracked files report as untracked.
func parsePorcelain(out string) []FileStatus {
	var statuses []FileStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code := line[:2]
		path := strings.TrimSpace(line[3:])
		// Renames are listed as "old -> new"; the new path is the one
		// that will be committed.
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		path = strings.Trim(path, `"`)

		var kind ChangeKind
		switch {
		case code == "??":
			kind = Untracked
		case code[0] == 'D' || code[1] == 'D':
			kind = Deleted
		case code[0] == 'R':
			kind = Renamed
		case code[0] == 'C':
			kind = Copied
		case code[0] == 'A':
			kind = Added
		default:
			kind = Modified
		}
		statuses = append(statuses, FileStatus{Path: path, Kind: kind})
	}
	return statuses
}

// Stage adds a single path to the index.
func (c *Client) Stage(ctx context.Context, path string) error {
	_, err := c.run(ctx, "add", "--", path)
	return err
}

// ResetFile unstages a path. Errors are ignored: reset is a best-effort
// cleanup on failure paths and the index may already be clean.
func (c *Client) ResetFile(ctx context.Context, path string) {
	_, _ = c.run(ctx, "reset", "HEAD", "--", path)
}

// StagedDiff returns the staged diff text, optionally restricted to paths.
func (c *Client) StagedDiff(ctx context.Context, paths ...string) (string, error) {
	args := []string{"diff", "--staged"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return c.run(ctx, args...)
}

// StagedFiles lists paths with staged changes.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ModifiedFiles lists tracked paths with unstaged changes, including
// deletions not yet staged.
func (c *Client) ModifiedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// UntrackedFiles lists paths git does not track, honouring ignore rules.
func (c *Client) UntrackedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// HasStagedChanges reports whether the given path has staged content.
func (c *Client) HasStagedChanges(ctx context.Context, path string) (bool, error) {
	out, err := c.run(ctx, "diff", "--cached", "--name-only", "--", path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// HasChanges reports whether a path still has anything to commit
// (staged, unstaged or untracked).
func (c *Client) HasChanges(ctx context.Context, path string) (bool, error) {
	statuses, err := c.Status(ctx, path)
	if err != nil {
		return false, err
	}
	return len(statuses) > 0, nil
}

// CommitOpts configures a commit invocation.
type CommitOpts struct {
	Message string
	Date    string   // optional, any format git accepts
	Paths   []string // commit only these paths
	Quiet   bool
}

// Commit creates a commit. When Paths is set the commit is scoped with
// --only so unrelated staged content is left alone.
func (c *Client) Commit(ctx context.Context, opts CommitOpts) error {
	args := []string{"commit"}
	if len(opts.Paths) > 0 {
		args = append(args, "--only")
	}
	args = append(args, "-m", opts.Message)
	if opts.Date != "" {
		args = append(args, "--date", opts.Date)
	}
	if opts.Quiet {
		args = append(args, "--quiet")
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	_, err := c.run(ctx, args...)
	return err
}

// LastCommitSummary returns the one-line summary of HEAD.
func (c *Client) LastCommitSummary(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "log", "-1", "--oneline")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GitDirFor resolves the .git directory governing relPath. Deleted files
// (and deleted parent directories) are handled by walking up to the
// nearest ancestor that still exists before asking git.
func (c *Client) GitDirFor(ctx context.Context, relPath string) (string, error) {
	base := filepath.Join(c.dir, filepath.Dir(relPath))
	for {
		if _, err := os.Stat(base); err == nil {
			break
		}
		parent := filepath.Dir(base)
		if parent == base {
			base = c.dir
			break
		}
		base = parent
	}

	stdout, stderr, code, err := c.runner.Run(ctx, base, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("exec git rev-parse: %w", err)
	}
	if code != 0 {
		return "", &GitError{Args: []string{"rev-parse", "--git-dir"}, Output: stderr + stdout}
	}
	gitDir := strings.TrimSpace(stdout)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(base, gitDir)
	}
	return gitDir, nil
}

// IsIndexBusy reports whether err is git telling us another process holds
// the index lock. Treated as a skip signal, not a failure.
func IsIndexBusy(err error) bool {
	return errOutputContains(err, "index.lock", "another git process")
}

// IsMissingPath reports whether err is a pathspec that no longer matches
// anything (file vanished or was already processed).
func IsMissingPath(err error) bool {
	return errOutputContains(err, "did not match")
}

// IsNothingToCommit reports whether err is git declining an empty commit.
func IsNothingToCommit(err error) bool {
	return errOutputContains(err, "nothing to commit", "no changes added to commit")
}

func errOutputContains(err error, needles ...string) bool {
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		return false
	}
	out := strings.ToLower(gitErr.Output)
	for _, n := range needles {
		if strings.Contains(out, n) {
			return true
		}
	}
	return false
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
