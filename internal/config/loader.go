package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultModels maps each supported provider to the model used when the
// configuration doesn't name one.
var DefaultModels = map[string]string{
	"deepseek": "deepseek-chat",
	"claude":   "claude-sonnet-4-20250514",
	"openai":   "gpt-4-turbo-preview",
	"ollama":   "llama3",
}

// DefaultDiff size thresholds, in characters of staged diff.
const (
	DefaultWarnDiffSize = 25000
	DefaultMaxDiffSize  = 30000
)

// GlobalPath returns the location of the global config file,
// ~/.seshat/config.yaml.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".seshat", "config.yaml"), nil
}

// LoadGlobal reads the global configuration, applies environment
// overrides and defaults. A missing config file is not an error;
// environment variables alone can form a valid configuration.
func LoadGlobal() (*Global, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return LoadGlobalFrom(path)
}

// LoadGlobalFrom reads the global configuration from an explicit path.
func LoadGlobalFrom(path string) (*Global, error) {
	var cfg Global

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(&cfg)
	Normalize(&cfg)
	return &cfg, nil
}

// LoadFile reads only the config file, with no environment overrides and
// no defaults. Used when editing the file so transient values aren't
// written back.
func LoadFile(path string) (*Global, error) {
	var cfg Global
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &cfg, nil
}

// applyEnv overrides file values with environment variables. Environment
// always wins, matching the original precedence (env > file > defaults).
func applyEnv(cfg *Global) {
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("COMMIT_LANGUAGE"); v != "" {
		cfg.CommitLanguage = v
	}
	if v := os.Getenv("DEFAULT_DATE"); v != "" {
		cfg.DefaultDate = v
	}
	if v := os.Getenv("MAX_DIFF_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffSize = n
		}
	}
	if v := os.Getenv("WARN_DIFF_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WarnDiffSize = n
		}
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.APIKey = v
	}
}

// Normalize fills in defaults without persisting anything.
func Normalize(cfg *Global) {
	if cfg.Model == "" {
		if m, ok := DefaultModels[cfg.Provider]; ok {
			cfg.Model = m
		}
	}
	if cfg.CommitLanguage == "" {
		cfg.CommitLanguage = "en"
	}
	if cfg.MaxDiffSize <= 0 {
		cfg.MaxDiffSize = DefaultMaxDiffSize
	}
	if cfg.WarnDiffSize <= 0 {
		cfg.WarnDiffSize = DefaultWarnDiffSize
	}
}

// Validate checks that the minimum configuration for AI calls is present.
func Validate(cfg *Global) error {
	if cfg.Provider == "" {
		return fmt.Errorf("AI provider not configured: set AI_PROVIDER or run 'seshat config set provider <name>'")
	}
	if _, ok := DefaultModels[cfg.Provider]; !ok {
		names := make([]string, 0, len(DefaultModels))
		for name := range DefaultModels {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("invalid provider %q (valid: %s)", cfg.Provider, strings.Join(names, ", "))
	}
	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return fmt.Errorf("API key not found for provider %s: set the API_KEY environment variable", cfg.Provider)
	}
	if cfg.Model == "" {
		return fmt.Errorf("model not configured for provider %s", cfg.Provider)
	}
	return nil
}

// SaveGlobal writes updates into the global config file, creating it if
// needed. Only non-secret fields are persisted.
func SaveGlobal(cfg *Global) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadProject reads the .seshat project configuration from dir. A missing
// or unreadable file yields the zero configuration, mirroring the lenient
// behaviour projects expect from optional dotfiles.
func LoadProject(dir string) *Project {
	var cfg Project

	data, err := os.ReadFile(filepath.Join(dir, ".seshat"))
	if err != nil {
		return &cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &Project{}
	}
	return &cfg
}
