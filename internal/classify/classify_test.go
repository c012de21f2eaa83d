package classify

import (
	"testing"

	"github.com/seshat-dev/seshat/internal/git"
)

func changeSet(files ...git.FileStatus) ChangeSet {
	return ChangeSet{Files: files}
}

func TestClassify_SingleDeletion(t *testing.T) {
	cs := changeSet(git.FileStatus{Path: "old.go", Kind: git.Deleted})

	result := Classify(cs, Rules{})

	if result.RequiresAI {
		t.Fatal("expected fast path for pure deletion")
	}
	if result.Rule != "deletion" {
		t.Errorf("expected rule=deletion, got %q", result.Rule)
	}
	if result.Message != "chore: remove old.go" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_MultipleDeletions(t *testing.T) {
	cs := changeSet(
		git.FileStatus{Path: "a.go", Kind: git.Deleted},
		git.FileStatus{Path: "b.go", Kind: git.Deleted},
	)

	result := Classify(cs, Rules{})

	if result.Message != "chore: remove 2 files (a.go, b.go)" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_DeletionRuleBeatsDocumentation(t *testing.T) {
	// A deleted markdown file matches both rules; deletion wins because
	// the file no longer exists to be "updated".
	cs := changeSet(git.FileStatus{Path: "README.md", Kind: git.Deleted})

	result := Classify(cs, Rules{})

	if result.Rule != "deletion" {
		t.Errorf("expected rule=deletion, got %q", result.Rule)
	}
	if result.Message != "chore: remove README.md" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_MixedDeletionFallsThrough(t *testing.T) {
	cs := changeSet(
		git.FileStatus{Path: "old.go", Kind: git.Deleted},
		git.FileStatus{Path: "new.go", Kind: git.Added},
	)

	result := Classify(cs, Rules{})

	if !result.RequiresAI {
		t.Error("mixed deletion/addition should require the AI pipeline")
	}
}

func TestClassify_DocumentationOnly(t *testing.T) {
	cs := changeSet(git.FileStatus{Path: "docs/guide.MD", Kind: git.Modified})

	result := Classify(cs, Rules{})

	if result.Rule != "documentation" {
		t.Fatalf("expected rule=documentation, got %q", result.Rule)
	}
	if result.Message != "docs: update docs/guide.MD" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_MultipleDocumentationFiles(t *testing.T) {
	cs := changeSet(
		git.FileStatus{Path: "README.md", Kind: git.Modified},
		git.FileStatus{Path: "CHANGELOG.markdown", Kind: git.Modified},
		git.FileStatus{Path: "docs/api.mdx", Kind: git.Added},
	)

	result := Classify(cs, Rules{})

	if result.Message != "docs: update 3 documentation files" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_DotfilesOnly(t *testing.T) {
	cs := changeSet(
		git.FileStatus{Path: ".gitignore", Kind: git.Modified},
		git.FileStatus{Path: ".github/workflows/ci.yml", Kind: git.Added},
	)

	result := Classify(cs, Rules{})

	if result.Rule != "dotfiles" {
		t.Fatalf("expected rule=dotfiles, got %q", result.Rule)
	}
	if result.Message != "chore: update 2 files" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_DotDirectoryCountsAsDotfile(t *testing.T) {
	cs := changeSet(git.FileStatus{Path: ".vscode/settings.json", Kind: git.Modified})

	result := Classify(cs, Rules{})

	if result.Rule != "dotfiles" {
		t.Errorf("expected rule=dotfiles, got %q", result.Rule)
	}
}

func TestClassify_BypassExtension(t *testing.T) {
	rules := Rules{NoAIExtensions: []string{"lock", ".sum"}}
	cs := changeSet(
		git.FileStatus{Path: "package-lock.json.lock", Kind: git.Modified},
		git.FileStatus{Path: "go.sum", Kind: git.Modified},
	)

	result := Classify(cs, rules)

	if result.Rule != "bypass" {
		t.Fatalf("expected rule=bypass, got %q", result.Rule)
	}
	if result.Message != "chore: update 2 files" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_BypassPathPrefix(t *testing.T) {
	rules := Rules{NoAIPaths: []string{"vendor/"}}
	cs := changeSet(git.FileStatus{Path: "vendor/lib/mod.go", Kind: git.Modified})

	result := Classify(cs, rules)

	if result.Rule != "bypass" {
		t.Errorf("expected rule=bypass, got %q", result.Rule)
	}
}

func TestClassify_BypassMarkdownUpgradesToDocs(t *testing.T) {
	rules := Rules{NoAIPaths: []string{"website"}}
	cs := changeSet(git.FileStatus{Path: "website/index.md", Kind: git.Modified})

	result := Classify(cs, rules)

	if result.Rule != "bypass" {
		t.Fatalf("expected rule=bypass, got %q", result.Rule)
	}
	if result.Message != "docs: update website/index.md" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestClassify_PartialBypassFallsThrough(t *testing.T) {
	rules := Rules{NoAIPaths: []string{"vendor"}}
	cs := changeSet(
		git.FileStatus{Path: "vendor/lib/mod.go", Kind: git.Modified},
		git.FileStatus{Path: "main.go", Kind: git.Modified},
	)

	result := Classify(cs, rules)

	if !result.RequiresAI {
		t.Error("partially matched bypass should require the AI pipeline")
	}
}

func TestClassify_CodeChangeRequiresAI(t *testing.T) {
	cs := changeSet(git.FileStatus{Path: "internal/server.go", Kind: git.Modified})

	result := Classify(cs, Rules{})

	if !result.RequiresAI {
		t.Error("expected code change to require AI")
	}
	if result.Rule != "" {
		t.Errorf("expected empty rule, got %q", result.Rule)
	}
}

func TestChangeSet_NonDeleted(t *testing.T) {
	cs := changeSet(
		git.FileStatus{Path: "keep.go", Kind: git.Modified},
		git.FileStatus{Path: "gone.go", Kind: git.Deleted},
	)

	got := cs.NonDeleted()
	if len(got) != 1 || got[0] != "keep.go" {
		t.Errorf("unexpected NonDeleted result: %v", got)
	}
}
