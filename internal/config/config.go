// Package config provides configuration management for the rulecanvas CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Output formats for CLI commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the CLI settings. The core engines take their inputs as
// explicit arguments; only the command layer consumes this.
type Config struct {
	CatalogPath string
	Strict      bool
	Draft       bool
	Output      string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Output: OutputTable,
	}
}

// Load reads configuration using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the command layer after Load returns.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("catalog", "")
	v.SetDefault("strict", false)
	v.SetDefault("draft", false)
	v.SetDefault("output", OutputTable)

	// Bind environment variables with RC_ prefix
	v.SetEnvPrefix("RC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		CatalogPath: v.GetString("catalog"),
		Strict:      v.GetBool("strict"),
		Draft:       v.GetBool("draft"),
		Output:      v.GetString("output"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the output format and mode combination.
func Validate(cfg *Config) error {
	switch cfg.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, cfg.Output)
	}
	return nil
}
