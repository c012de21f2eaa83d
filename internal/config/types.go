package config

// Global is the user-level configuration loaded from ~/.seshat/config.yaml
// and overridden by environment variables.
type Global struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	CommitLanguage string `yaml:"commit_language"`
	DefaultDate    string `yaml:"default_date"`
	MaxDiffSize    int    `yaml:"max_diff_size"`
	WarnDiffSize   int    `yaml:"warn_diff_size"`

	// APIKey is never persisted; it is resolved from the API_KEY
	// environment variable at load time.
	APIKey string `yaml:"-"`
}

// Project is the per-repository configuration parsed from a .seshat file
// in the repository root. A missing file yields the zero value.
type Project struct {
	ProjectType    string           `yaml:"project_type"`
	Checks         map[string]Check `yaml:"checks"`
	CodeReview     CodeReview       `yaml:"code_review"`
	NoAIExtensions []string         `yaml:"no_ai_extensions"`
	NoAIPaths      []string         `yaml:"no_ai_paths"`
}

// Check overrides the discovered tool for a single check kind
// (lint, test or typecheck).
type Check struct {
	Command    string   `yaml:"command"`
	Blocking   *bool    `yaml:"blocking"`
	Extensions []string `yaml:"extensions"`
	Timeout    string   `yaml:"timeout"`
}

// CodeReview configures the AI review gate.
type CodeReview struct {
	Enabled     bool     `yaml:"enabled"`
	Blocking    bool     `yaml:"blocking"`
	Extensions  []string `yaml:"extensions"`
	AutoConfirm bool     `yaml:"auto_confirm"`
	Judge       Judge    `yaml:"judge"`
}

// Judge configures the secondary reviewer consulted when the primary
// review blocks a commit. An empty Provider means no judge is configured.
type Judge struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// Configured reports whether a judge provider has been set.
func (j Judge) Configured() bool {
	return j.Provider != ""
}
