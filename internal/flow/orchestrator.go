package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/seshat-dev/seshat/internal/classify"
	"github.com/seshat-dev/seshat/internal/engine"
	"github.com/seshat-dev/seshat/internal/git"
)

// FileResult is the per-file detail of a batch run.
type FileResult struct {
	Path   string `json:"path"`
	Status string `json:"status"` // "committed", "failed", "skipped"
	Detail string `json:"detail,omitempty"`
}

// Result aggregates a batch run. One failed file never aborts the batch;
// everything is reported at the end.
type Result struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Files     []FileResult `json:"files"`
}

// DecisionEngine is the single-file commit pipeline the orchestrator
// drives. Satisfied by *engine.Engine.
type DecisionEngine interface {
	Decide(ctx context.Context, cs classify.ChangeSet, flags engine.Flags) (*engine.Outcome, error)
}

// Recorder persists per-file outcomes, e.g. into the history store.
type Recorder interface {
	RecordFlowEvent(path, status, detail string) error
}

// Orchestrator iterates candidate files and commits each one
// individually under a per-file lock.
type Orchestrator struct {
	git      *git.Client
	locks    *LockManager
	engine   DecisionEngine
	recorder Recorder // nil disables history
}

// NewOrchestrator builds an Orchestrator. recorder may be nil.
func NewOrchestrator(g *git.Client, locks *LockManager, eng DecisionEngine, recorder Recorder) *Orchestrator {
	return &Orchestrator{git: g, locks: locks, engine: eng, recorder: recorder}
}

// RunOpts configures a batch run.
type RunOpts struct {
	MaxCount int // 0 processes everything
	Flags    engine.Flags
}

// Candidates returns the files eligible for the flow: modified,
// untracked and staged paths, deduplicated, in discovery order.
func (o *Orchestrator) Candidates(ctx context.Context) ([]string, error) {
	var candidates []string
	seen := make(map[string]bool)

	add := func(paths []string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				candidates = append(candidates, p)
			}
		}
	}

	modified, err := o.git.ModifiedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modified files: %w", err)
	}
	add(modified)

	untracked, err := o.git.UntrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list untracked files: %w", err)
	}
	add(untracked)

	staged, err := o.git.StagedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staged files: %w", err)
	}
	add(staged)

	return candidates, nil
}

// Run processes candidate paths one at a time. Lock contention and
// vanished files are skips; engine aborts are per-file failures.
func (o *Orchestrator) Run(ctx context.Context, candidates []string, opts RunOpts) *Result {
	if opts.MaxCount > 0 && len(candidates) > opts.MaxCount {
		candidates = candidates[:opts.MaxCount]
	}

	result := &Result{}
	for _, path := range candidates {
		fr := o.processFile(ctx, path, opts.Flags)
		result.Files = append(result.Files, fr)
		switch fr.Status {
		case "committed":
			result.Succeeded++
		case "skipped":
			result.Skipped++
		default:
			result.Failed++
		}
		if o.recorder != nil {
			_ = o.recorder.RecordFlowEvent(fr.Path, fr.Status, fr.Detail)
		}
	}
	return result
}

// processFile runs the full single-file pipeline under a lock. The lock
// is released on every exit path.
func (o *Orchestrator) processFile(ctx context.Context, path string, flags engine.Flags) FileResult {
	handle, err := o.locks.Acquire(ctx, path)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return FileResult{Path: path, Status: "skipped", Detail: "locked by another agent"}
		}
		return FileResult{Path: path, Status: "failed", Detail: err.Error()}
	}
	defer func() {
		_ = o.locks.Release(handle)
	}()

	// The file may have been committed by another agent between
	// discovery and lock acquisition.
	hasChanges, err := o.git.HasChanges(ctx, path)
	if err != nil {
		return FileResult{Path: path, Status: "failed", Detail: err.Error()}
	}
	if !hasChanges {
		return FileResult{Path: path, Status: "skipped", Detail: "no changes left"}
	}

	// Stage first so diff inspection reflects the intended unit.
	if err := o.git.Stage(ctx, path); err != nil {
		switch {
		case git.IsMissingPath(err):
			return FileResult{Path: path, Status: "skipped", Detail: "file vanished"}
		case git.IsIndexBusy(err):
			return FileResult{Path: path, Status: "skipped", Detail: "git index busy"}
		default:
			return FileResult{Path: path, Status: "failed", Detail: err.Error()}
		}
	}

	staged, err := o.git.HasStagedChanges(ctx, path)
	if err != nil {
		return FileResult{Path: path, Status: "failed", Detail: err.Error()}
	}
	if !staged {
		o.git.ResetFile(ctx, path)
		return FileResult{Path: path, Status: "skipped", Detail: "nothing staged"}
	}

	statuses, err := o.git.Status(ctx, path)
	if err != nil || len(statuses) == 0 {
		o.git.ResetFile(ctx, path)
		return FileResult{Path: path, Status: "failed", Detail: "cannot determine file status"}
	}

	outcome, err := o.engine.Decide(ctx, classify.ChangeSet{Files: statuses}, flags)
	if err != nil {
		o.git.ResetFile(ctx, path)
		if git.IsNothingToCommit(err) || git.IsIndexBusy(err) {
			return FileResult{Path: path, Status: "skipped", Detail: err.Error()}
		}
		return FileResult{Path: path, Status: "failed", Detail: err.Error()}
	}

	return FileResult{Path: path, Status: "committed", Detail: outcome.Message}
}
