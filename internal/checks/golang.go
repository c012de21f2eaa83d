package checks

// GoStrategy covers Go modules detected via go.mod. Go tooling is
// module-scoped, so no tool receives individual file arguments.
type GoStrategy struct{}

var goExtensions = []string{".go"}

func (s *GoStrategy) Name() string { return "go" }

func (s *GoStrategy) FilterFiles(files []string, kind Kind, extensions []string) []string {
	if len(extensions) > 0 {
		return filterByExtensions(files, extensions)
	}
	if kind == KindTest {
		return filterByExtensions(files, []string{"_test.go"})
	}
	return filterByExtensions(files, goExtensions)
}

func (s *GoStrategy) DiscoverTools(dir string) map[Kind]Tool {
	tools := map[Kind]Tool{
		KindLint:      {Name: "go vet", Command: []string{"go", "vet", "./..."}, Kind: KindLint, Blocking: true},
		KindTypecheck: {Name: "go build", Command: []string{"go", "build", "./..."}, Kind: KindTypecheck, Blocking: true},
		KindTest:      {Name: "go test", Command: []string{"go", "test", "./..."}, Kind: KindTest, Blocking: true},
	}
	if fileExists(dir, ".golangci.yml", ".golangci.yaml") {
		tools[KindLint] = Tool{Name: "golangci-lint", Command: []string{"golangci-lint", "run"}, Kind: KindLint, Blocking: true}
	}
	return tools
}
