package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seshat-dev/seshat/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDetect_MarkerFiles(t *testing.T) {
	cases := []struct {
		marker string
		want   string
	}{
		{"package.json", "typescript"},
		{"pyproject.toml", "python"},
		{"requirements.txt", "python"},
		{"go.mod", "go"},
	}
	for _, tc := range cases {
		dir := t.TempDir()
		writeFile(t, dir, tc.marker, "")

		s := Detect(dir, nil)
		if s == nil {
			t.Errorf("%s: expected detection", tc.marker)
			continue
		}
		if s.Name() != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.marker, tc.want, s.Name())
		}
	}
}

func TestDetect_NoMarkersReturnsNil(t *testing.T) {
	if s := Detect(t.TempDir(), nil); s != nil {
		t.Errorf("expected nil strategy, got %s", s.Name())
	}
}

func TestDetect_ConfigOverrideWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", "{}")

	cfg := &config.Project{ProjectType: "python"}
	s := Detect(dir, cfg)
	if s == nil || s.Name() != "python" {
		t.Errorf("expected python via override, got %v", s)
	}

	cfg = &config.Project{ProjectType: "cobol"}
	if s := Detect(dir, cfg); s != nil {
		t.Errorf("unknown project_type should yield nil, got %s", s.Name())
	}
}

func TestTypeScriptDiscoverTools(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"devDependencies": {"eslint": "^9.0.0", "typescript": "^5.0.0", "vitest": "^2.0.0"},
		"scripts": {"lint": "eslint .", "typecheck": "tsc -p ."}
	}`)

	tools := (&TypeScriptStrategy{}).DiscoverTools(dir)

	lint, ok := tools[KindLint]
	if !ok {
		t.Fatal("expected lint tool")
	}
	// The project's own npm script wins and never receives file args.
	if lint.Command[0] != "npm" || lint.PassFiles {
		t.Errorf("unexpected lint tool: %+v", lint)
	}

	tc, ok := tools[KindTypecheck]
	if !ok {
		t.Fatal("expected typecheck tool")
	}
	if tc.Command[2] != "typecheck" {
		t.Errorf("expected npm run typecheck, got %v", tc.Command)
	}

	if _, ok := tools[KindTest]; !ok {
		t.Error("expected vitest test tool")
	}
}

func TestTypeScriptFilterFiles(t *testing.T) {
	s := &TypeScriptStrategy{}
	files := []string{"app.ts", "app.test.ts", "styles.css", "README.md", "util.js"}

	lint := s.FilterFiles(files, KindLint, nil)
	if len(lint) != 3 {
		t.Errorf("unexpected lint files: %v", lint)
	}

	tests := s.FilterFiles(files, KindTest, nil)
	if len(tests) != 1 || tests[0] != "app.test.ts" {
		t.Errorf("unexpected test files: %v", tests)
	}

	custom := s.FilterFiles(files, KindLint, []string{".css"})
	if len(custom) != 1 || custom[0] != "styles.css" {
		t.Errorf("extension override not honored: %v", custom)
	}
}

func TestPythonDiscoverTools(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.ruff]\nline-length = 100\n\n[tool.pytest.ini_options]\n")

	tools := (&PythonStrategy{}).DiscoverTools(dir)

	lint, ok := tools[KindLint]
	if !ok {
		t.Fatal("expected ruff lint tool")
	}
	if lint.Name != "ruff" {
		t.Errorf("expected ruff, got %s", lint.Name)
	}
}

func TestPythonFilterTestFiles(t *testing.T) {
	s := &PythonStrategy{}
	files := []string{"app.py", "test_app.py", "app_test.py", "conftest.py", "notes.txt"}

	tests := s.FilterFiles(files, KindTest, nil)
	if len(tests) != 3 {
		t.Errorf("unexpected test files: %v", tests)
	}
}

func TestGoDiscoverTools(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/m\n")

	tools := (&GoStrategy{}).DiscoverTools(dir)

	if _, ok := tools[KindTest]; !ok {
		t.Error("expected go test tool")
	}
	if _, ok := tools[KindTypecheck]; !ok {
		t.Error("expected go build tool")
	}
	lint, ok := tools[KindLint]
	if !ok {
		t.Fatal("expected vet tool")
	}
	if lint.PassFiles {
		t.Error("go tools operate on packages, not file lists")
	}
}
