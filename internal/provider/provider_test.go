package provider

import (
	"strings"
	"testing"
)

func TestNew_ProviderSelection(t *testing.T) {
	p, err := New(Config{Provider: "claude", APIKey: "k", Model: "claude-sonnet-4-20250514"})
	if err != nil {
		t.Fatalf("claude: %v", err)
	}
	if !strings.HasPrefix(p.Identity(), "claude/") {
		t.Errorf("unexpected identity: %s", p.Identity())
	}

	for _, name := range []string{"deepseek", "openai", "ollama"} {
		p, err := New(Config{Provider: name, APIKey: "k", Model: "m"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Identity() != name+"/m" {
			t.Errorf("unexpected identity: %s", p.Identity())
		}
	}

	if _, err := New(Config{Provider: "watson"}); err == nil {
		t.Error("unknown provider must be rejected")
	}
}

func TestCommitSystemPrompt_Language(t *testing.T) {
	prompt := commitSystemPrompt(Options{Language: "en"})
	if strings.Contains(prompt, "Write the message in") {
		t.Error("english must not add a language instruction")
	}

	prompt = commitSystemPrompt(Options{Language: "pt-BR"})
	if !strings.Contains(prompt, "pt-BR") {
		t.Error("language instruction missing")
	}
	if !strings.Contains(prompt, "keep the type keyword in English") {
		t.Error("type keyword rule missing")
	}
}

func TestReviewSystemPrompt_JudgeVariant(t *testing.T) {
	if p := reviewSystemPrompt(""); strings.Contains(p, "Previous findings") {
		t.Error("primary prompt must not include prior findings")
	}

	p := reviewSystemPrompt("- [BUG] a.go:1 something")
	if !strings.Contains(p, "Previous findings") || !strings.Contains(p, "a.go:1") {
		t.Error("judge prompt must carry prior findings")
	}
	if !strings.Contains(p, "---CODE_REVIEW---") {
		t.Error("judge prompt must request the combined response format")
	}
}
