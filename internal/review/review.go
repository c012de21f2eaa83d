package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/seshat-dev/seshat/internal/config"
)

// State is the review gate's position in its state machine.
type State string

const (
	StateNotRun            State = "not_run"
	StateReviewed          State = "reviewed"
	StateBlocked           State = "blocked"
	StateApproved          State = "approved"
	StateJudgePending      State = "judge_pending"
	StateJudgeApproved     State = "judge_approved"
	StateJudgeStillBlocked State = "judge_still_blocked"
)

// ErrDeclined is returned when the user refuses to proceed past
// advisory findings.
var ErrDeclined = errors.New("review declined by user")

// Verdict is the gate's final decision for one commit attempt.
type Verdict struct {
	State        State
	Findings     []Finding
	Blocked      bool
	JudgeInvoked bool

	// JudgeMessage is the judge's commit message. When the judge clears
	// a blocked review, this message is authoritative for the commit.
	JudgeMessage string
}

// Reviewer generates a code review for a staged diff. PriorFindings is
// empty for the primary pass and carries the first reviewer's findings
// when a judge re-reviews.
type Reviewer interface {
	Identity() string
	GenerateCodeReview(ctx context.Context, diff string, priorFindings string) (string, error)
}

// Confirmer asks whether to proceed past advisory findings.
type Confirmer func(findings []Finding) bool

// Gate applies the review state machine for one commit attempt.
type Gate struct {
	primary Reviewer
	judge   Reviewer // nil when no judge is configured
	cfg     config.CodeReview
	audit   *AuditLog // nil disables audit logging
	confirm Confirmer // nil auto-confirms
}

// NewGate builds a review gate. judge may be nil.
func NewGate(primary, judge Reviewer, cfg config.CodeReview, audit *AuditLog, confirm Confirmer) *Gate {
	return &Gate{primary: primary, judge: judge, cfg: cfg, audit: audit, confirm: confirm}
}

// Review runs the primary review on diff and walks the state machine to
// a terminal state. The returned error is non-nil for collaborator
// failures and for ErrDeclined; a Blocked verdict is not an error here —
// the decision engine translates it.
func (g *Gate) Review(ctx context.Context, diff string) (*Verdict, error) {
	verdict := &Verdict{State: StateNotRun}
	if diff == "" {
		verdict.State = StateApproved
		return verdict, nil
	}

	raw, err := g.primary.GenerateCodeReview(ctx, diff, "")
	if err != nil {
		return verdict, fmt.Errorf("code review: %w", err)
	}

	// Providers may answer in the combined message+review format; only
	// the review section carries findings.
	_, section := SplitResponse(raw)
	if section == "" {
		section = raw
	}
	verdict.Findings = ParseFindings(section)
	verdict.State = StateReviewed

	// Audit is an artifact, never a gate input: write failures are
	// deliberately ignored.
	if g.audit != nil {
		_ = g.audit.Append(g.primary.Identity(), verdict.Findings)
	}

	if hasHard(verdict.Findings) && g.cfg.Blocking {
		verdict.State = StateBlocked
		verdict.Blocked = true
		if g.judge == nil {
			return verdict, nil
		}
		return g.escalate(ctx, diff, verdict)
	}

	if len(verdict.Findings) > 0 && !g.cfg.AutoConfirm && g.confirm != nil {
		if !g.confirm(verdict.Findings) {
			return verdict, ErrDeclined
		}
	}

	verdict.State = StateApproved
	return verdict, nil
}

// escalate hands a blocked review to the judge. The judge sees the same
// diff plus the primary findings and reviews independently; if it finds
// no hard issue, its commit message replaces the primary provider's.
func (g *Gate) escalate(ctx context.Context, diff string, verdict *Verdict) (*Verdict, error) {
	verdict.State = StateJudgePending
	verdict.JudgeInvoked = true

	raw, err := g.judge.GenerateCodeReview(ctx, diff, FormatFindings(verdict.Findings))
	if err != nil {
		return verdict, fmt.Errorf("judge review: %w", err)
	}

	message, section := SplitResponse(raw)
	judgeFindings := ParseFindings(section)

	if g.audit != nil {
		_ = g.audit.Append(g.judge.Identity(), judgeFindings)
	}

	if hasHard(judgeFindings) {
		verdict.State = StateJudgeStillBlocked
		verdict.Blocked = true
		verdict.Findings = append(verdict.Findings, judgeFindings...)
		return verdict, nil
	}

	verdict.State = StateJudgeApproved
	verdict.Blocked = false
	verdict.JudgeMessage = message
	return verdict, nil
}

func hasHard(findings []Finding) bool {
	for _, f := range findings {
		if f.Hard() {
			return true
		}
	}
	return false
}
