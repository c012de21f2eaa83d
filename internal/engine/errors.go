package engine

import "errors"

// Sentinel abort reasons. Each maps to one stage of the pipeline so
// callers can tell apart what stopped a commit with errors.Is; the
// wrapped message carries the verbatim detail.
var (
	// ErrBlockingCheck means a configured blocking tool failed.
	ErrBlockingCheck = errors.New("blocking check failure")

	// ErrReviewBlocked means a hard review finding was not cleared by a judge.
	ErrReviewBlocked = errors.New("review blocked")

	// ErrInvalidMessage means the generated or automatic message failed
	// Conventional Commits validation. Messages are never auto-corrected.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrDiffTooLarge means the staged diff exceeds the configured maximum.
	ErrDiffTooLarge = errors.New("staged diff too large")
)
