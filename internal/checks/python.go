package checks

import (
	"os"
	"path/filepath"
	"strings"
)

// PythonStrategy covers Python projects detected via pyproject.toml,
// setup.py or requirements.txt.
type PythonStrategy struct{}

var (
	pyExtensions   = []string{".py", ".pyi"}
	pyTestPatterns = []string{"_test.py", "tests.py", "conftest.py"}
)

func (s *PythonStrategy) Name() string { return "python" }

func (s *PythonStrategy) FilterFiles(files []string, kind Kind, extensions []string) []string {
	if len(extensions) > 0 {
		return filterByExtensions(files, extensions)
	}
	if kind == KindTest {
		var filtered []string
		for _, f := range files {
			name := strings.ToLower(filepath.Base(f))
			if strings.HasPrefix(name, "test_") || hasAnySuffix(name, pyTestPatterns) {
				filtered = append(filtered, f)
			}
		}
		return filtered
	}
	return filterByExtensions(files, pyExtensions)
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// DiscoverTools resolves Python tools from pyproject.toml sections and
// well-known config files. Ruff wins over flake8 when both are present.
func (s *PythonStrategy) DiscoverTools(dir string) map[Kind]Tool {
	tools := make(map[Kind]Tool)

	pyproject := ""
	if data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml")); err == nil {
		pyproject = string(data)
	}

	switch {
	case strings.Contains(pyproject, "[tool.ruff]") || fileExists(dir, "ruff.toml", ".ruff.toml"):
		tools[KindLint] = Tool{Name: "ruff", Command: []string{"ruff", "check"}, Kind: KindLint, Blocking: true, PassFiles: true}
	case fileExists(dir, ".flake8", "setup.cfg"):
		tools[KindLint] = Tool{Name: "flake8", Command: []string{"flake8"}, Kind: KindLint, Blocking: true, PassFiles: true}
	}

	if strings.Contains(pyproject, "[tool.mypy]") || fileExists(dir, "mypy.ini", ".mypy.ini") {
		tools[KindTypecheck] = Tool{Name: "mypy", Command: []string{"mypy"}, Kind: KindTypecheck, Blocking: true, PassFiles: true}
	}

	if strings.Contains(pyproject, "[tool.pytest") || fileExists(dir, "pytest.ini", "conftest.py") || dirExists(dir, "tests") {
		tools[KindTest] = Tool{Name: "pytest", Command: []string{"pytest"}, Kind: KindTest, Blocking: true, PassFiles: true}
	}

	return tools
}

func fileExists(dir string, names ...string) bool {
	for _, name := range names {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func dirExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
