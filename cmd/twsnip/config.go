package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/yacobolo/twsnip"
	"github.com/yacobolo/twsnip/internal/vault"
)

const defaultConfigFile = ".twsnip.yaml"

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (set flags override, defaults only fill missing keys)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (TWSNIP_* prefix)
	if err := k.Load(env.Provider("TWSNIP_", ".", func(s string) string {
		// TWSNIP_LOG_LEVEL -> log-level
		// TWSNIP_CONFIG_DIR -> config-dir
		// TWSNIP_QUIET -> quiet
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "TWSNIP_")),
			"_", "-",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// runtimeConfig is the resolved command configuration
type runtimeConfig struct {
	Vault     string
	ConfigDir string
	PluginID  string
	Ignore    []string
	Debounce  time.Duration
	LogLevel  string
	LogFormat string
	Color     bool
	Quiet     bool
}

// buildRuntimeConfig constructs the runtime configuration from koanf state.
func buildRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		Vault:     getStringWithFallback("vault", "vault", "."),
		ConfigDir: getStringWithFallback("config-dir", "config-dir", vault.DefaultConfigDir),
		PluginID:  getStringWithFallback("plugin-id", "plugin-id", twsnip.DefaultPluginID),
		Ignore:    getStringsWithFallback("ignore", "ignore", nil),
		Debounce:  getDurationWithFallback("debounce", "debounce", vault.DefaultDebounce),
		LogLevel:  getStringWithFallback("log-level", "log-level", "info"),
		LogFormat: getStringWithFallback("log-format", "log-format", "text"),
		Color:     getBoolWithFallback("color", "color", false),
		Quiet:     getBoolWithFallback("quiet", "quiet", false),
	}
}

// newLogger builds the slog logger selected by log-level and log-format.
func newLogger(cfg runtimeConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.LogFormat)
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}
