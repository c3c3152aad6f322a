// Package config loads application configuration for the setup
// wizard. Values come from defaults, an optional TOML file in the user
// config dir, and PANOPTES_-prefixed environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Draft    DraftConfig
	Workflow WorkflowConfig
	Export   ExportConfig
}

// DraftConfig holds draft-persistence settings.
type DraftConfig struct {
	Path       string // sqlite database file
	Migrations string // migrations directory
}

// WorkflowConfig points at an optional workflow-table override.
type WorkflowConfig struct {
	Path string
}

// ExportConfig holds the default output location.
type ExportConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use
// prefix PANOPTES_, e.g. PANOPTES_DRAFT_PATH.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "panoptes")
	v.SetDefault("draft.path", filepath.Join(dataDir, "drafts.db"))
	v.SetDefault("draft.migrations", "")
	v.SetDefault("workflow.path", "")
	v.SetDefault("export.path", filepath.Join(dataDir, "panoptes.json"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PANOPTES_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "panoptes"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PANOPTES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
