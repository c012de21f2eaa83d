// Package review runs the AI-backed code review gate: it parses
// severity-tagged findings out of free-form model output, applies the
// blocking state machine and optionally escalates to a judge.
package review

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Severity classifies a review finding. BUG and SECURITY are hard
// findings; everything else is advisory.
type Severity string

const (
	SeverityBug      Severity = "BUG"
	SeveritySecurity Severity = "SECURITY"
	SeveritySmell    Severity = "SMELL"
	SeverityPerf     Severity = "PERF"
	SeverityStyle    Severity = "STYLE"
)

// Finding is one issue extracted from a review response. File is
// "unknown" when no file reference could be resolved.
type Finding struct {
	File        string
	Line        int
	Severity    Severity
	Description string
}

// Hard reports whether the finding must block a commit when the review
// gate is configured as blocking.
func (f Finding) Hard() bool {
	return f.Severity == SeverityBug || f.Severity == SeveritySecurity
}

// UnknownFile is the file reference used for findings without one.
const UnknownFile = "unknown"

// ReviewMarker separates the commit message from the review section in
// a combined provider response.
const ReviewMarker = "---CODE_REVIEW---"

// SplitResponse splits a combined provider response into the commit
// message part and the review section. Without the marker the whole
// text is the message.
func SplitResponse(text string) (message string, reviewSection string) {
	before, after, found := strings.Cut(text, ReviewMarker)
	if !found {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// severityPattern matches a bracketed severity tag anywhere in a line.
var severityPattern = regexp.MustCompile(`\[([A-Za-z]{2,12})\]`)

// backtickRefPattern matches a backtick-quoted file reference; paths in
// backticks may contain spaces.
var backtickRefPattern = regexp.MustCompile("`([^`]+?\\.[A-Za-z0-9]{1,8})(?::([0-9]+))?`")

// bareRefPattern matches an unquoted file reference, optionally with a
// drive-letter prefix and a :line suffix.
var bareRefPattern = regexp.MustCompile(`((?:[A-Za-z]:[\\/])?[\w~$@+=-]+(?:[\\/.][\w~$@+=-]+)*\.[A-Za-z0-9]{1,8})(?::([0-9]+))?`)

// knownSeverities normalizes tag spelling to the fixed set. Unknown tags
// fall back to SMELL rather than being dropped; the parser is
// best-effort by design.
var knownSeverities = map[string]Severity{
	"BUG":      SeverityBug,
	"SECURITY": SeveritySecurity,
	"SMELL":    SeveritySmell,
	"PERF":     SeverityPerf,
	"STYLE":    SeverityStyle,
}

// ParseFindings extracts severity-tagged findings from review text.
// Lines without a severity tag are ignored; an "OK" review yields no
// findings.
func ParseFindings(text string) []Finding {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(strings.ToUpper(text), "OK") {
		return nil
	}

	var findings []Finding
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tagMatch := severityPattern.FindStringSubmatchIndex(line)
		if tagMatch == nil {
			continue
		}
		tag := strings.ToUpper(line[tagMatch[2]:tagMatch[3]])
		severity, ok := knownSeverities[tag]
		if !ok {
			severity = SeveritySmell
		}

		rest := strings.TrimSpace(line[:tagMatch[0]] + line[tagMatch[1]:])
		rest = strings.TrimLeft(rest, "-*• \t")

		file, lineNo := extractFileRef(rest)

		description := strings.TrimSpace(rest)
		if description == "" {
			continue
		}
		findings = append(findings, Finding{
			File:        file,
			Line:        lineNo,
			Severity:    severity,
			Description: description,
		})
	}
	return findings
}

// extractFileRef finds a file reference embedded anywhere in a line,
// tolerating backticks, surrounding punctuation, spaces inside quoted
// paths and Windows drive letters.
func extractFileRef(line string) (string, int) {
	if m := backtickRefPattern.FindStringSubmatch(line); m != nil {
		return cleanRef(m[1]), parseLineNo(m[2])
	}
	if m := bareRefPattern.FindStringSubmatch(line); m != nil {
		return cleanRef(m[1]), parseLineNo(m[2])
	}
	return UnknownFile, 0
}

func cleanRef(ref string) string {
	ref = strings.Trim(ref, `()[]{}<>"',;.`)
	if ref == "" {
		return UnknownFile
	}
	return ref
}

func parseLineNo(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// FormatFindings renders findings back into the tagged line format, used
// when handing prior findings to the judge.
func FormatFindings(findings []Finding) string {
	var b strings.Builder
	for _, f := range findings {
		ref := f.File
		if f.Line > 0 {
			ref = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Fprintf(&b, "- [%s] %s %s\n", f.Severity, ref, f.Description)
	}
	return b.String()
}
