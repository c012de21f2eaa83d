package review

import "testing"

func TestParseFindings_OKReview(t *testing.T) {
	for _, text := range []string{"OK", "ok", "OK - no issues found", ""} {
		if findings := ParseFindings(text); len(findings) != 0 {
			t.Errorf("expected no findings for %q, got %d", text, len(findings))
		}
	}
}

func TestParseFindings_TaggedLines(t *testing.T) {
	text := `- [BUG] server.go:42 nil pointer dereference on shutdown
- [SMELL] handler.go long function
- [SECURITY] auth.go:10 token logged in plaintext`

	findings := ParseFindings(text)
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}

	if findings[0].Severity != SeverityBug {
		t.Errorf("expected BUG, got %s", findings[0].Severity)
	}
	if findings[0].File != "server.go" || findings[0].Line != 42 {
		t.Errorf("unexpected ref: %s:%d", findings[0].File, findings[0].Line)
	}
	if findings[1].Severity != SeveritySmell || findings[1].Line != 0 {
		t.Errorf("unexpected second finding: %+v", findings[1])
	}
	if !findings[2].Hard() {
		t.Error("SECURITY should be a hard finding")
	}
}

func TestParseFindings_UntaggedLinesIgnored(t *testing.T) {
	text := `Here is my review of the diff:
# heading
- [PERF] cache.go:7 repeated allocation in hot loop
Overall looks reasonable.`

	findings := ParseFindings(text)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != SeverityPerf {
		t.Errorf("expected PERF, got %s", findings[0].Severity)
	}
}

func TestParseFindings_UnknownTagFallsBackToSmell(t *testing.T) {
	findings := ParseFindings("- [WEIRD] util.go something odd")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != SeveritySmell {
		t.Errorf("expected SMELL fallback, got %s", findings[0].Severity)
	}
}

func TestParseFindings_BacktickedPathWithSpaces(t *testing.T) {
	findings := ParseFindings("- [BUG] `my docs/read me.md:3` broken link")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].File != "my docs/read me.md" {
		t.Errorf("unexpected file: %q", findings[0].File)
	}
	if findings[0].Line != 3 {
		t.Errorf("unexpected line: %d", findings[0].Line)
	}
}

func TestParseFindings_WindowsDriveLetter(t *testing.T) {
	findings := ParseFindings(`- [BUG] C:\src\app\main.go:12 race on shared map`)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].File != `C:\src\app\main.go` {
		t.Errorf("unexpected file: %q", findings[0].File)
	}
	if findings[0].Line != 12 {
		t.Errorf("unexpected line: %d", findings[0].Line)
	}
}

func TestParseFindings_NoFileReference(t *testing.T) {
	findings := ParseFindings("- [STYLE] inconsistent naming across the change")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].File != UnknownFile {
		t.Errorf("expected unknown file, got %q", findings[0].File)
	}
}

func TestParseFindings_SurroundingPunctuationTrimmed(t *testing.T) {
	findings := ParseFindings("- [SMELL] duplicated logic (util/helpers.go).")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].File != "util/helpers.go" {
		t.Errorf("unexpected file: %q", findings[0].File)
	}
}

func TestSplitResponse(t *testing.T) {
	message, section := SplitResponse("feat: add cache\n\n---CODE_REVIEW---\n- [SMELL] cache.go big file")
	if message != "feat: add cache" {
		t.Errorf("unexpected message: %q", message)
	}
	if section != "- [SMELL] cache.go big file" {
		t.Errorf("unexpected review section: %q", section)
	}

	message, section = SplitResponse("fix: plain message only")
	if message != "fix: plain message only" || section != "" {
		t.Errorf("unexpected split without marker: %q / %q", message, section)
	}
}

func TestFormatFindings(t *testing.T) {
	out := FormatFindings([]Finding{
		{File: "a.go", Line: 5, Severity: SeverityBug, Description: "oops"},
		{File: UnknownFile, Severity: SeveritySmell, Description: "vague"},
	})
	want := "- [BUG] a.go:5 oops\n- [SMELL] unknown vague\n"
	if out != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}
