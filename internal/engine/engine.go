// Package engine sequences one commit attempt: classification, check
// gate, review gate, message generation, validation, commit. Validation
// and gating always precede the commit side effect; no partial commit is
// ever created.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/seshat-dev/seshat/internal/checks"
	"github.com/seshat-dev/seshat/internal/classify"
	"github.com/seshat-dev/seshat/internal/config"
	"github.com/seshat-dev/seshat/internal/git"
	"github.com/seshat-dev/seshat/internal/provider"
	"github.com/seshat-dev/seshat/internal/review"
)

// Flags are the per-invocation switches from the CLI.
type Flags struct {
	Kinds       []checks.Kind // requested check kinds, nil skips checks
	Review      bool          // force review on even if config disables it
	NoReview    bool          // explicitly disable review
	Date        string        // author date override
	AutoConfirm bool
	Verbose     bool
}

// Outcome reports what one commit attempt did.
type Outcome struct {
	Message     string
	Committed   bool
	Rule        string // classifier fast-path rule, "" when AI was used
	AIUsed      bool
	Checks      []checks.Outcome
	ReviewState review.State
	Findings    []review.Finding
	Warning     string // non-fatal notice (e.g. large diff)
}

// Engine combines the collaborators into a single decision sequence.
type Engine struct {
	git        *git.Client
	provider   provider.Provider // nil restricts the engine to fast paths
	checkGate  *checks.Gate
	reviewGate *review.Gate // nil disables review
	global     *config.Global
	project    *config.Project
}

// New creates an Engine. provider and reviewGate may be nil.
func New(g *git.Client, p provider.Provider, checkGate *checks.Gate, reviewGate *review.Gate, global *config.Global, project *config.Project) *Engine {
	return &Engine{
		git:        g,
		provider:   p,
		checkGate:  checkGate,
		reviewGate: reviewGate,
		global:     global,
		project:    project,
	}
}

// Decide runs the full pipeline for one staged change set. Every abort
// carries a sentinel reason; the commit happens only after the message
// validates.
func (e *Engine) Decide(ctx context.Context, cs classify.ChangeSet, flags Flags) (*Outcome, error) {
	if cs.Empty() {
		return nil, fmt.Errorf("empty change set")
	}

	outcome := &Outcome{ReviewState: review.StateNotRun}

	rules := classify.Rules{}
	if e.project != nil {
		rules.NoAIExtensions = e.project.NoAIExtensions
		rules.NoAIPaths = e.project.NoAIPaths
	}

	// Fast path: an automatic message skips checks and review entirely.
	// Deleted files in particular no longer exist, so no tool could run
	// against them anyway.
	result := classify.Classify(cs, rules)
	if !result.RequiresAI {
		outcome.Message = result.Message
		outcome.Rule = result.Rule
		return e.commit(ctx, cs, outcome, flags)
	}

	if len(flags.Kinds) > 0 && e.checkGate != nil {
		outcome.Checks = e.checkGate.Run(ctx, cs.NonDeleted(), flags.Kinds, e.project)
		if checks.HasBlockingFailure(outcome.Checks) {
			return outcome, fmt.Errorf("%w: %s", ErrBlockingCheck, failingTools(outcome.Checks))
		}
	}

	if e.reviewEnabled(flags) {
		verdict, err := e.runReview(ctx, cs)
		if err != nil {
			return outcome, err
		}
		if verdict != nil {
			outcome.ReviewState = verdict.State
			outcome.Findings = verdict.Findings
			if verdict.Blocked {
				return outcome, fmt.Errorf("%w: %s", ErrReviewBlocked, verdict.State)
			}
			// A judge that clears the review authors the message.
			if verdict.State == review.StateJudgeApproved && verdict.JudgeMessage != "" {
				outcome.Message = verdict.JudgeMessage
			}
		}
	}

	if outcome.Message == "" {
		message, warning, err := e.generateMessage(ctx, cs)
		if err != nil {
			return outcome, err
		}
		outcome.Message = message
		outcome.Warning = warning
		outcome.AIUsed = true
	}

	return e.commit(ctx, cs, outcome, flags)
}

// commit validates the message and performs the commit. This is the only
// place the side effect happens.
func (e *Engine) commit(ctx context.Context, cs classify.ChangeSet, outcome *Outcome, flags Flags) (*Outcome, error) {
	if err := ValidateMessage(outcome.Message); err != nil {
		return outcome, err
	}

	date := flags.Date
	if date == "" && e.global != nil {
		date = e.global.DefaultDate
	}

	err := e.git.Commit(ctx, git.CommitOpts{
		Message: outcome.Message,
		Date:    date,
		Paths:   cs.Paths(),
		Quiet:   !flags.Verbose,
	})
	if err != nil {
		return outcome, fmt.Errorf("commit: %w", err)
	}
	outcome.Committed = true
	return outcome, nil
}

func (e *Engine) reviewEnabled(flags Flags) bool {
	if flags.NoReview || e.reviewGate == nil {
		return false
	}
	if flags.Review {
		return true
	}
	return e.project != nil && e.project.CodeReview.Enabled
}

// runReview restricts the diff to the configured review extensions and
// walks the review gate. A nil verdict means nothing was reviewable.
func (e *Engine) runReview(ctx context.Context, cs classify.ChangeSet) (*review.Verdict, error) {
	paths := cs.NonDeleted()
	if e.project != nil && len(e.project.CodeReview.Extensions) > 0 {
		paths = filterExtensions(paths, e.project.CodeReview.Extensions)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	diff, err := e.git.StagedDiff(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("staged diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return nil, nil
	}

	verdict, err := e.reviewGate.Review(ctx, diff)
	if err != nil {
		if errors.Is(err, review.ErrDeclined) {
			return verdict, err
		}
		return verdict, fmt.Errorf("review: %w", err)
	}
	return verdict, nil
}

// generateMessage fetches the staged diff, applies the size guard and
// asks the provider for a message.
func (e *Engine) generateMessage(ctx context.Context, cs classify.ChangeSet) (message string, warning string, err error) {
	if e.provider == nil {
		return "", "", fmt.Errorf("no AI provider configured and change set requires one")
	}

	diff, err := e.git.StagedDiff(ctx, cs.Paths()...)
	if err != nil {
		return "", "", fmt.Errorf("staged diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return "", "", fmt.Errorf("nothing staged for %s", strings.Join(cs.Paths(), ", "))
	}

	warnSize, maxSize := config.DefaultWarnDiffSize, config.DefaultMaxDiffSize
	language := "en"
	if e.global != nil {
		warnSize, maxSize = e.global.WarnDiffSize, e.global.MaxDiffSize
		if e.global.CommitLanguage != "" {
			language = e.global.CommitLanguage
		}
	}
	if len(diff) > maxSize {
		return "", "", fmt.Errorf("%w: %d chars (max %d), split the change into smaller commits", ErrDiffTooLarge, len(diff), maxSize)
	}
	if len(diff) > warnSize {
		warning = fmt.Sprintf("staged diff is large (%d chars), consider smaller commits", len(diff))
	}

	message, err = e.provider.GenerateCommitMessage(ctx, diff, provider.Options{Language: language})
	if err != nil {
		return "", "", fmt.Errorf("generate message: %w", err)
	}
	return strings.TrimSpace(message), warning, nil
}

func failingTools(outcomes []checks.Outcome) string {
	var names []string
	for _, o := range outcomes {
		if o.Blocking && !o.Success && !o.Skipped {
			names = append(names, o.Tool)
		}
	}
	return strings.Join(names, ", ")
}

func filterExtensions(paths []string, extensions []string) []string {
	var filtered []string
	for _, p := range paths {
		ext := strings.ToLower(path.Ext(p))
		for _, allowed := range extensions {
			allowed = strings.ToLower(allowed)
			if !strings.HasPrefix(allowed, ".") {
				allowed = "." + allowed
			}
			if ext == allowed {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}
