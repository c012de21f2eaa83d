package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/checks"
	"github.com/seshat-dev/seshat/internal/config"
	"github.com/seshat-dev/seshat/internal/engine"
	"github.com/seshat-dev/seshat/internal/git"
	"github.com/seshat-dev/seshat/internal/provider"
	"github.com/seshat-dev/seshat/internal/review"
)

// reviewLogDir is where per-file review audit logs are appended,
// relative to the working tree root.
const reviewLogDir = ".seshat-review-log"

// commonFlags are the flags shared by commit and flow.
type commonFlags struct {
	provider string
	model    string
	yes      bool
	verbose  bool
	date     string
	check    string
	review   bool
	noReview bool
	path     string
}

// addCommonFlags registers the flags shared by commit and flow.
func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "AI provider override (deepseek, claude, openai, ollama)")
	cmd.Flags().StringVar(&f.model, "model", "", "model override for the selected provider")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "auto-confirm review findings")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose git output")
	cmd.Flags().StringVar(&f.date, "date", "", "commit date override (passed to git --date)")
	cmd.Flags().StringVar(&f.check, "check", "", "checks to run: lint, test, typecheck, full (comma-separated)")
	cmd.Flags().BoolVar(&f.review, "review", false, "force AI code review even if disabled in config")
	cmd.Flags().BoolVar(&f.noReview, "no-review", false, "skip AI code review")
	cmd.Flags().StringVarP(&f.path, "path", "C", "", "run as if started in this directory")
}

// deps bundles everything a command needs for one invocation.
type deps struct {
	git     *git.Client
	engine  *engine.Engine
	global  *config.Global
	project *config.Project
	flags   engine.Flags
}

// buildDeps wires the collaborators from configuration and CLI flags.
// A configuration that can't reach an AI provider is not fatal here:
// fast-path commits still work, and the engine reports the problem if
// an AI call turns out to be needed.
func buildDeps(f commonFlags) (*deps, error) {
	workdir := f.path
	if workdir == "" {
		workdir = "."
	}
	workdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	global, err := config.LoadGlobal()
	if err != nil {
		return nil, err
	}
	if f.provider != "" {
		global.Provider = f.provider
		global.Model = ""
	}
	if f.model != "" {
		global.Model = f.model
	}
	config.Normalize(global)

	project := config.LoadProject(workdir)
	gitClient := git.NewClient(workdir, nil)

	var aiProvider provider.Provider
	if err := config.Validate(global); err == nil {
		aiProvider, err = provider.New(provider.Config{
			Provider: global.Provider,
			Model:    global.Model,
			BaseURL:  global.BaseURL,
			APIKey:   global.APIKey,
		})
		if err != nil {
			return nil, err
		}
	}

	strategy := checks.Detect(workdir, project)
	checkGate := checks.NewGate(workdir, nil, strategy)

	var reviewGate *review.Gate
	if aiProvider != nil {
		var judge review.Reviewer
		if project.CodeReview.Judge.Configured() {
			j, err := provider.New(provider.Config{
				Provider: project.CodeReview.Judge.Provider,
				Model:    judgeModel(project.CodeReview.Judge),
				BaseURL:  project.CodeReview.Judge.BaseURL,
				APIKey:   global.APIKey,
			})
			if err != nil {
				return nil, fmt.Errorf("configure judge: %w", err)
			}
			judge = j
		}

		cfg := project.CodeReview
		if f.yes {
			cfg.AutoConfirm = true
		}
		audit := review.NewAuditLog(filepath.Join(workdir, reviewLogDir))
		reviewGate = review.NewGate(aiProvider, judge, cfg, audit, confirmFindings)
	}

	eng := engine.New(gitClient, aiProvider, checkGate, reviewGate, global, project)

	return &deps{
		git:     gitClient,
		engine:  eng,
		global:  global,
		project: project,
		flags: engine.Flags{
			Kinds:       checks.ParseKinds(f.check),
			Review:      f.review,
			NoReview:    f.noReview,
			Date:        f.date,
			AutoConfirm: f.yes,
			Verbose:     f.verbose,
		},
	}, nil
}

func judgeModel(j config.Judge) string {
	if j.Model != "" {
		return j.Model
	}
	return config.DefaultModels[j.Provider]
}

// confirmFindings prints advisory findings and asks whether to proceed.
func confirmFindings(findings []review.Finding) bool {
	fmt.Println("Code review findings:")
	for _, f := range findings {
		ref := f.File
		if f.Line > 0 {
			ref = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Printf("  [%s] %s %s\n", f.Severity, ref, f.Description)
	}
	return promptYesNo("Proceed with commit?")
}

func promptYesNo(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
