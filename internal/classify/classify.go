// Package classify decides whether a change set can be committed with an
// automatic message or needs the full AI pipeline.
package classify

import (
	"fmt"
	"path"
	"strings"

	"github.com/seshat-dev/seshat/internal/git"
)

// ChangeSet is the ordered collection of paths forming one commit
// attempt. Paths are relative to the repository root.
type ChangeSet struct {
	Files []git.FileStatus
}

// Paths returns the change set's paths in order.
func (cs ChangeSet) Paths() []string {
	paths := make([]string, len(cs.Files))
	for i, f := range cs.Files {
		paths[i] = f.Path
	}
	return paths
}

// NonDeleted returns the paths that still exist on disk.
func (cs ChangeSet) NonDeleted() []string {
	var paths []string
	for _, f := range cs.Files {
		if f.Kind != git.Deleted {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Empty reports whether the change set has no files.
func (cs ChangeSet) Empty() bool {
	return len(cs.Files) == 0
}

// Rules holds the configured bypass patterns. Extensions are matched
// against path suffixes, paths as prefixes of the repository-relative path.
type Rules struct {
	NoAIExtensions []string
	NoAIPaths      []string
}

// Result is the classifier outcome: either an automatic message or a
// signal that the full AI pipeline is required.
type Result struct {
	RequiresAI bool
	Message    string
	Rule       string // which fast-path rule fired, "" when RequiresAI
}

// markdownExtensions is the documentation family eligible for the
// docs fast path.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mdx":      true,
}

// Classify evaluates the fast-path rules in fixed order: deletion →
// documentation → dotfiles → configured bypass. The first matching rule
// wins; mixed change sets fall through to the AI pipeline.
func Classify(cs ChangeSet, rules Rules) Result {
	if cs.Empty() {
		return Result{RequiresAI: true}
	}

	if allDeleted(cs) {
		return Result{Message: deletionMessage(cs), Rule: "deletion"}
	}
	if allMarkdown(cs) {
		return Result{Message: autoMessage("docs", cs), Rule: "documentation"}
	}
	if allDotfiles(cs) {
		return Result{Message: autoMessage("chore", cs), Rule: "dotfiles"}
	}
	if matched, docsOnly := allBypassed(cs, rules); matched {
		category := "chore"
		if docsOnly {
			category = "docs"
		}
		return Result{Message: autoMessage(category, cs), Rule: "bypass"}
	}

	return Result{RequiresAI: true}
}

func allDeleted(cs ChangeSet) bool {
	for _, f := range cs.Files {
		if f.Kind != git.Deleted {
			return false
		}
	}
	return true
}

func allMarkdown(cs ChangeSet) bool {
	for _, f := range cs.Files {
		if !markdownExtensions[strings.ToLower(path.Ext(f.Path))] {
			return false
		}
	}
	return true
}

// allDotfiles reports whether every path is a dotfile or lives under a
// dot-prefixed directory.
func allDotfiles(cs ChangeSet) bool {
	for _, f := range cs.Files {
		if !isDotPath(f.Path) {
			return false
		}
	}
	return true
}

func isDotPath(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if strings.HasPrefix(segment, ".") && segment != "." && segment != ".." {
			return true
		}
	}
	return false
}

// allBypassed checks the configured no-AI rules. It also reports whether
// every matched path is markdown, which upgrades the category to docs.
func allBypassed(cs ChangeSet, rules Rules) (matched bool, docsOnly bool) {
	if len(rules.NoAIExtensions) == 0 && len(rules.NoAIPaths) == 0 {
		return false, false
	}

	docsOnly = true
	for _, f := range cs.Files {
		if !bypassMatch(f.Path, rules) {
			return false, false
		}
		if !markdownExtensions[strings.ToLower(path.Ext(f.Path))] {
			docsOnly = false
		}
	}
	return true, docsOnly
}

func bypassMatch(p string, rules Rules) bool {
	lower := strings.ToLower(p)
	for _, ext := range rules.NoAIExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, prefix := range rules.NoAIPaths {
		if prefix == "" {
			continue
		}
		prefix = strings.TrimSuffix(prefix, "/")
		if lower == strings.ToLower(prefix) || strings.HasPrefix(lower, strings.ToLower(prefix)+"/") {
			return true
		}
	}
	return false
}

func deletionMessage(cs ChangeSet) string {
	paths := cs.Paths()
	if len(paths) == 1 {
		return fmt.Sprintf("chore: remove %s", paths[0])
	}
	return fmt.Sprintf("chore: remove %d files (%s)", len(paths), strings.Join(paths, ", "))
}

func autoMessage(category string, cs ChangeSet) string {
	paths := cs.Paths()
	if len(paths) == 1 {
		return fmt.Sprintf("%s: update %s", category, paths[0])
	}
	noun := "files"
	if category == "docs" {
		noun = "documentation files"
	}
	return fmt.Sprintf("%s: update %d %s", category, len(paths), noun)
}
