package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the global configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(configKeys))
		for k := range configKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("%s: %s\n", k, configKeys[k].get(cfg))
		}
		if cfg.APIKey != "" {
			cmd.Println("api_key: (set via API_KEY)")
		} else {
			cmd.Println("api_key: (not set)")
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		field, ok := configKeys[args[0]]
		if !ok {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		cmd.Println(field.get(cfg))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GlobalPath()
		if err != nil {
			return err
		}
		// Read the raw file so environment overrides aren't persisted.
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		field, ok := configKeys[args[0]]
		if !ok {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		if err := field.set(cfg, args[1]); err != nil {
			return err
		}
		if err := config.SaveGlobal(cfg); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

// configField binds a key name to its Global accessor pair.
type configField struct {
	get func(*config.Global) string
	set func(*config.Global, string) error
}

var configKeys = map[string]configField{
	"provider": {
		get: func(c *config.Global) string { return c.Provider },
		set: func(c *config.Global, v string) error {
			if _, ok := config.DefaultModels[v]; !ok {
				return fmt.Errorf("invalid provider %q", v)
			}
			c.Provider = v
			return nil
		},
	},
	"model": {
		get: func(c *config.Global) string { return c.Model },
		set: func(c *config.Global, v string) error { c.Model = v; return nil },
	},
	"base_url": {
		get: func(c *config.Global) string { return c.BaseURL },
		set: func(c *config.Global, v string) error { c.BaseURL = v; return nil },
	},
	"commit_language": {
		get: func(c *config.Global) string { return c.CommitLanguage },
		set: func(c *config.Global, v string) error { c.CommitLanguage = v; return nil },
	},
	"default_date": {
		get: func(c *config.Global) string { return c.DefaultDate },
		set: func(c *config.Global, v string) error { c.DefaultDate = v; return nil },
	},
	"max_diff_size": {
		get: func(c *config.Global) string { return strconv.Itoa(c.MaxDiffSize) },
		set: func(c *config.Global, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("max_diff_size must be a positive integer")
			}
			c.MaxDiffSize = n
			return nil
		},
	},
	"warn_diff_size": {
		get: func(c *config.Global) string { return strconv.Itoa(c.WarnDiffSize) },
		set: func(c *config.Global, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("warn_diff_size must be a positive integer")
			}
			c.WarnDiffSize = n
			return nil
		},
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
