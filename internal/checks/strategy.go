package checks

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seshat-dev/seshat/internal/config"
)

// Strategy is the per-language capability interface: it knows which
// tools a project of its type uses and which files each check kind
// applies to.
type Strategy interface {
	Name() string

	// DiscoverTools returns at most one tool per check kind, resolved
	// from the project's own configuration files.
	DiscoverTools(dir string) map[Kind]Tool

	// FilterFiles narrows a file list to those a check kind applies to.
	// A non-empty extensions list overrides the strategy's defaults.
	FilterFiles(files []string, kind Kind, extensions []string) []string
}

// strategies in detection order. The first whose marker file exists wins.
var strategies = []Strategy{
	&TypeScriptStrategy{},
	&PythonStrategy{},
	&GoStrategy{},
}

// Detect picks the language strategy for a project directory. An explicit
// project_type in .seshat wins over file-based detection. Returns nil
// when the project type is unknown.
func Detect(dir string, cfg *config.Project) Strategy {
	if cfg != nil && cfg.ProjectType != "" {
		for _, s := range strategies {
			if s.Name() == cfg.ProjectType {
				return s
			}
		}
		return nil
	}
	for _, s := range strategies {
		if detected(dir, s) {
			return s
		}
	}
	return nil
}

func detected(dir string, s Strategy) bool {
	var markers []string
	switch s.Name() {
	case "typescript":
		markers = []string{"package.json"}
	case "python":
		markers = []string{"pyproject.toml", "setup.py", "requirements.txt"}
	case "go":
		markers = []string{"go.mod"}
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}

// applyOverride merges a .seshat check override into a discovered tool.
// A configured command replaces the discovered one and stops file
// passing, since user commands own their own arguments.
func applyOverride(tool Tool, cfg *config.Project) Tool {
	if cfg == nil {
		return tool
	}
	override, ok := cfg.Checks[string(tool.Kind)]
	if !ok {
		return tool
	}
	if override.Blocking != nil {
		tool.Blocking = *override.Blocking
	}
	if override.Command != "" {
		tool.Command = strings.Fields(override.Command)
		tool.PassFiles = false
	}
	if len(override.Extensions) > 0 {
		tool.Extensions = override.Extensions
	}
	if override.Timeout != "" {
		if d, err := time.ParseDuration(override.Timeout); err == nil {
			tool.Timeout = d
		}
	}
	return tool
}

// filterByExtensions is the shared suffix-matching filter. Extensions are
// matched case-insensitively and may be multi-part (".test.ts").
func filterByExtensions(files []string, extensions []string) []string {
	var filtered []string
	for _, f := range files {
		name := strings.ToLower(filepath.Base(f))
		for _, ext := range extensions {
			if strings.HasSuffix(name, strings.ToLower(ext)) {
				filtered = append(filtered, f)
				break
			}
		}
	}
	return filtered
}
