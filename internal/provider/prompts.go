package provider

import (
	"fmt"
	"strings"
)

const commitPromptBase = `You are a commit message generator. Given a staged git diff,
write a single commit message following the Conventional Commits specification:

    type(scope): subject

Allowed types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert.
The scope is optional. The subject is imperative, lower-case and has no trailing period.
Add a short body only when the change is not self-explanatory.
Respond with the commit message only, no fences, no commentary.`

const reviewPromptBase = `You are a code reviewer. Analyze the staged git diff for:
- potential bugs or logic errors
- security concerns
- code smells (duplication, unclear naming, missing error handling)
- performance issues
- style problems

Report each issue on its own line in this exact format:

    - [TYPE] path/to/file.ext:line description

Where TYPE is one of: BUG, SECURITY, SMELL, PERF, STYLE.
Use the file paths as they appear in the diff. If you cannot attribute an
issue to a file, omit the path. If the code looks clean, respond with:

    OK - Code looks clean.`

const judgePromptBase = `You are an independent second-opinion reviewer. A previous review
blocked this diff with the findings listed below. Re-review the diff from scratch and
judge for yourself; do not assume the previous findings are correct.

Respond with a Conventional Commits message for the diff first, then a line containing
exactly ---CODE_REVIEW--- followed by your own findings in the format:

    - [TYPE] path/to/file.ext:line description

Where TYPE is one of: BUG, SECURITY, SMELL, PERF, STYLE. If you find no real
issue, write "OK" after the marker.`

func commitSystemPrompt(opts Options) string {
	var b strings.Builder
	b.WriteString(commitPromptBase)
	if opts.Language != "" && !strings.EqualFold(opts.Language, "en") {
		fmt.Fprintf(&b, "\nWrite the message in %s; keep the type keyword in English.", opts.Language)
	}
	if len(opts.Examples) > 0 {
		b.WriteString("\nMatch the style of these recent messages from the repository:\n")
		for _, ex := range opts.Examples {
			fmt.Fprintf(&b, "  %s\n", ex)
		}
	}
	return b.String()
}

func reviewSystemPrompt(priorFindings string) string {
	if priorFindings == "" {
		return reviewPromptBase
	}
	return judgePromptBase + "\n\nPrevious findings:\n" + priorFindings
}
