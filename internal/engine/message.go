package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// allowedTypes is the fixed Conventional Commits type set.
var allowedTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"docs":     true,
	"style":    true,
	"refactor": true,
	"perf":     true,
	"test":     true,
	"build":    true,
	"ci":       true,
	"chore":    true,
	"revert":   true,
}

// headerPattern matches `type(scope)?!?: subject` on the first line.
var headerPattern = regexp.MustCompile(`^([a-z]+)(\([^)\s]+\))?(!)?: (.+)$`)

// ValidateMessage checks a commit message against the Conventional
// Commits grammar. Only the header line is validated; the body is free.
func ValidateMessage(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: empty message", ErrInvalidMessage)
	}

	header, _, _ := strings.Cut(message, "\n")
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return fmt.Errorf("%w: header %q does not match type(scope): subject", ErrInvalidMessage, header)
	}
	if !allowedTypes[m[1]] {
		return fmt.Errorf("%w: unknown commit type %q", ErrInvalidMessage, m[1])
	}
	if strings.TrimSpace(m[4]) == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	return nil
}
