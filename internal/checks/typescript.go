package checks

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TypeScriptStrategy covers TypeScript and JavaScript projects detected
// via package.json. Tools are discovered from the project's own
// dependencies and npm scripts.
type TypeScriptStrategy struct{}

var (
	tsLintExtensions      = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".mts", ".cts"}
	tsTypecheckExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".d.ts"}
	tsTestPatterns        = []string{".test.ts", ".test.js", ".test.tsx", ".test.jsx", ".spec.ts", ".spec.js", ".spec.tsx", ".spec.jsx"}
)

func (s *TypeScriptStrategy) Name() string { return "typescript" }

func (s *TypeScriptStrategy) FilterFiles(files []string, kind Kind, extensions []string) []string {
	if len(extensions) > 0 {
		return filterByExtensions(files, extensions)
	}
	switch kind {
	case KindTest:
		return filterByExtensions(files, tsTestPatterns)
	case KindTypecheck:
		return filterByExtensions(files, tsTypecheckExtensions)
	default:
		return filterByExtensions(files, tsLintExtensions)
	}
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

func (s *TypeScriptStrategy) DiscoverTools(dir string) map[Kind]Tool {
	tools := make(map[Kind]Tool)

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return tools
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return tools
	}

	deps := make(map[string]bool)
	for name := range pkg.Dependencies {
		deps[name] = true
	}
	for name := range pkg.DevDependencies {
		deps[name] = true
	}

	switch {
	case deps["eslint"] || deps["@eslint/js"]:
		tools[KindLint] = s.scriptOrDefault(pkg, "lint",
			Tool{Name: "eslint", Command: []string{"npx", "eslint"}, Kind: KindLint, Blocking: true, PassFiles: true})
	case deps["@biomejs/biome"]:
		tools[KindLint] = s.scriptOrDefault(pkg, "lint",
			Tool{Name: "biome", Command: []string{"npx", "@biomejs/biome", "check"}, Kind: KindLint, Blocking: true, PassFiles: true})
	}

	if deps["typescript"] {
		tool := Tool{Name: "tsc", Command: []string{"npx", "tsc", "--noEmit"}, Kind: KindTypecheck, Blocking: true}
		for _, script := range []string{"typecheck", "type-check"} {
			if _, ok := pkg.Scripts[script]; ok {
				tool.Command = []string{"npm", "run", script}
				break
			}
		}
		tools[KindTypecheck] = tool
	}

	switch {
	case deps["jest"]:
		tools[KindTest] = s.scriptOrDefault(pkg, "test",
			Tool{Name: "jest", Command: []string{"npx", "jest", "--passWithNoTests"}, Kind: KindTest, Blocking: true, PassFiles: true})
	case deps["vitest"]:
		tools[KindTest] = s.scriptOrDefault(pkg, "test",
			Tool{Name: "vitest", Command: []string{"npx", "vitest", "run"}, Kind: KindTest, Blocking: true})
	}

	return tools
}

// scriptOrDefault prefers the project's npm script when one exists;
// npm scripts never receive file arguments.
func (s *TypeScriptStrategy) scriptOrDefault(pkg packageJSON, script string, fallback Tool) Tool {
	if _, ok := pkg.Scripts[script]; ok {
		fallback.Command = []string{"npm", "run", script}
		fallback.PassFiles = false
	}
	return fallback
}
