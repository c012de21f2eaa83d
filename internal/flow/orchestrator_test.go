package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/seshat-dev/seshat/internal/classify"
	"github.com/seshat-dev/seshat/internal/engine"
	"github.com/seshat-dev/seshat/internal/git"
)

// scriptRunner maps joined git argument strings to canned responses.
// Unknown invocations succeed with empty output.
type scriptRunner struct {
	gitDir    string
	responses map[string]string
	calls     []string
}

func (r *scriptRunner) Run(ctx context.Context, dir string, args ...string) (string, string, int, error) {
	key := strings.Join(args, " ")
	r.calls = append(r.calls, key)
	if key == "rev-parse --git-dir" {
		return r.gitDir + "\n", "", 0, nil
	}
	if out, ok := r.responses[key]; ok {
		return out, "", 0, nil
	}
	return "", "", 0, nil
}

type mockEngine struct {
	decided []string
	errs    map[string]error
}

func (m *mockEngine) Decide(ctx context.Context, cs classify.ChangeSet, flags engine.Flags) (*engine.Outcome, error) {
	path := cs.Paths()[0]
	m.decided = append(m.decided, path)
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	return &engine.Outcome{Message: "feat: update " + path, Committed: true}, nil
}

func testOrchestrator(t *testing.T, runner *scriptRunner, eng DecisionEngine) *Orchestrator {
	t.Helper()
	if runner.gitDir == "" {
		runner.gitDir = t.TempDir()
	}
	client := git.NewClient(t.TempDir(), runner)
	return NewOrchestrator(client, NewLockManager(client), eng, nil)
}

func TestCandidates_DedupedDiscoveryOrder(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"diff --name-only":                     "a.go\nb.go\n",
		"ls-files --others --exclude-standard": "c.txt\n",
		"diff --cached --name-only":            "b.go\nd.md\n",
	}}
	orch := testOrchestrator(t, runner, &mockEngine{})

	candidates, err := orch.Candidates(context.Background())
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	want := []string{"a.go", "b.go", "c.txt", "d.md"}
	if len(candidates) != len(want) {
		t.Fatalf("expected %v, got %v", want, candidates)
	}
	for i, p := range want {
		if candidates[i] != p {
			t.Errorf("candidate %d: expected %s, got %s", i, p, candidates[i])
		}
	}
}

func TestRun_CommitsEachFile(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go":        " M a.go\n",
		"status --porcelain -- b.go":        " M b.go\n",
		"diff --cached --name-only -- a.go": "a.go\n",
		"diff --cached --name-only -- b.go": "b.go\n",
	}}
	eng := &mockEngine{}
	orch := testOrchestrator(t, runner, eng)

	result := orch.Run(context.Background(), []string{"a.go", "b.go"}, RunOpts{})

	if result.Succeeded != 2 || result.Failed != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(eng.decided) != 2 {
		t.Errorf("expected 2 engine calls, got %d", len(eng.decided))
	}
}

func TestRun_LockedFileSkipped(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go":        " M a.go\n",
		"status --porcelain -- b.go":        " M b.go\n",
		"diff --cached --name-only -- a.go": "a.go\n",
		"diff --cached --name-only -- b.go": "b.go\n",
	}}
	eng := &mockEngine{}
	orch := testOrchestrator(t, runner, eng)

	// Another agent holds b.go.
	other := NewLockManager(orch.git)
	if _, err := other.Acquire(context.Background(), "b.go"); err != nil {
		t.Fatalf("pre-lock: %v", err)
	}

	result := orch.Run(context.Background(), []string{"a.go", "b.go"}, RunOpts{})

	if result.Succeeded != 1 || result.Skipped != 1 || result.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(result.Files))
	}
	if result.Files[1].Status != "skipped" || result.Files[1].Detail != "locked by another agent" {
		t.Errorf("unexpected result for locked file: %+v", result.Files[1])
	}
	if len(eng.decided) != 1 || eng.decided[0] != "a.go" {
		t.Errorf("engine should only see the unlocked file, got %v", eng.decided)
	}
}

func TestRun_FailureNeverAbortsBatch(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go":        " M a.go\n",
		"status --porcelain -- b.go":        " M b.go\n",
		"status --porcelain -- c.go":        " M c.go\n",
		"diff --cached --name-only -- a.go": "a.go\n",
		"diff --cached --name-only -- b.go": "b.go\n",
		"diff --cached --name-only -- c.go": "c.go\n",
	}}
	eng := &mockEngine{errs: map[string]error{"b.go": errors.New("review blocked")}}
	orch := testOrchestrator(t, runner, eng)

	result := orch.Run(context.Background(), []string{"a.go", "b.go", "c.go"}, RunOpts{})

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(eng.decided) != 3 {
		t.Errorf("all files should be attempted, got %v", eng.decided)
	}
	// The failed file must have been unstaged.
	found := false
	for _, call := range runner.calls {
		if call == "reset HEAD -- b.go" {
			found = true
		}
	}
	if !found {
		t.Error("expected reset for the failed file")
	}
}

func TestRun_NoChangesLeftSkipped(t *testing.T) {
	// Status is empty: someone else committed the file after discovery.
	runner := &scriptRunner{responses: map[string]string{}}
	eng := &mockEngine{}
	orch := testOrchestrator(t, runner, eng)

	result := orch.Run(context.Background(), []string{"a.go"}, RunOpts{})

	if result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Files[0].Detail != "no changes left" {
		t.Errorf("unexpected detail: %q", result.Files[0].Detail)
	}
	if len(eng.decided) != 0 {
		t.Error("engine must not run for a file with no changes")
	}
}

func TestRun_NothingStagedSkipped(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go": " M a.go\n",
		// diff --cached stays empty: staging produced nothing.
	}}
	eng := &mockEngine{}
	orch := testOrchestrator(t, runner, eng)

	result := orch.Run(context.Background(), []string{"a.go"}, RunOpts{})

	if result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Files[0].Detail != "nothing staged" {
		t.Errorf("unexpected detail: %q", result.Files[0].Detail)
	}
}

func TestRun_MaxCountLimitsBatch(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go":        " M a.go\n",
		"diff --cached --name-only -- a.go": "a.go\n",
	}}
	eng := &mockEngine{}
	orch := testOrchestrator(t, runner, eng)

	result := orch.Run(context.Background(), []string{"a.go", "b.go", "c.go"}, RunOpts{MaxCount: 1})

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 processed file, got %d", len(result.Files))
	}
	if result.Files[0].Path != "a.go" {
		t.Errorf("expected a.go first, got %s", result.Files[0].Path)
	}
}

type recordingRecorder struct {
	events []string
}

func (r *recordingRecorder) RecordFlowEvent(path, status, detail string) error {
	r.events = append(r.events, fmt.Sprintf("%s=%s", path, status))
	return nil
}

func TestRun_RecorderReceivesEveryOutcome(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"status --porcelain -- a.go":        " M a.go\n",
		"diff --cached --name-only -- a.go": "a.go\n",
	}}
	rec := &recordingRecorder{}
	runner.gitDir = t.TempDir()
	client := git.NewClient(t.TempDir(), runner)
	orch := NewOrchestrator(client, NewLockManager(client), &mockEngine{}, rec)

	orch.Run(context.Background(), []string{"a.go", "missing.go"}, RunOpts{})

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 recorded events, got %v", rec.events)
	}
	if rec.events[0] != "a.go=committed" {
		t.Errorf("unexpected first event: %s", rec.events[0])
	}
	if rec.events[1] != "missing.go=skipped" {
		t.Errorf("unexpected second event: %s", rec.events[1])
	}
}
