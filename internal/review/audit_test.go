package review

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAuditLog_AppendPerFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "review-log")
	audit := NewAuditLog(dir)
	audit.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	findings := []Finding{
		{File: "internal/server.go", Line: 42, Severity: SeverityBug, Description: "nil deref"},
		{File: UnknownFile, Severity: SeveritySmell, Description: "vague concern"},
	}
	if err := audit.Append("deepseek/deepseek-chat", findings); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "internal__server.go.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	entry := string(data)
	for _, part := range []string{"2025-06-01T12:00:00Z", "deepseek/deepseek-chat", "[BUG]", "internal/server.go:42", "nil deref"} {
		if !strings.Contains(entry, part) {
			t.Errorf("entry missing %q: %q", part, entry)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "unknown.log")); err != nil {
		t.Errorf("expected unknown.log: %v", err)
	}
}

func TestAuditLog_AppendsAcrossReviews(t *testing.T) {
	dir := t.TempDir()
	audit := NewAuditLog(dir)

	finding := []Finding{{File: "a.go", Severity: SeveritySmell, Description: "first"}}
	if err := audit.Append("primary", finding); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	finding[0].Description = "second"
	if err := audit.Append("judge", finding); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.go.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("entries out of order or lost: %v", lines)
	}
}

func TestAuditLog_NoFindingsNoDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "review-log")
	audit := NewAuditLog(dir)

	if err := audit.Append("primary", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("no directory should be created without findings")
	}
}
