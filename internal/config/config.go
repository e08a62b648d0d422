// Package config loads scanctl's settings from flags, environment
// variables, and an optional config file, using viper the way cobra-based
// CLIs in the pack pair the two (cobra for flag definitions, viper for
// layered resolution and env binding).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SCANCTL"

// Settings holds the resolved configuration for a scan run.
type Settings struct {
	GoogleDriveToken  string `mapstructure:"google_drive_token"`
	GraphToken        string `mapstructure:"graph_token"`
	Provider          string `mapstructure:"provider"` // "gdrive" or "onedrive"
	FetchConcurrency  int    `mapstructure:"fetch_concurrency"`
	CacheFile         string `mapstructure:"cache_file"`
	ListenAddr        string `mapstructure:"listen_addr"`
	LogLevel          string `mapstructure:"log_level"`
}

// defaults applied before flags, env, and config file are layered on top.
func defaults() map[string]any {
	return map[string]any{
		"provider":          "gdrive",
		"fetch_concurrency": 6,
		"cache_file":        "",
		"listen_addr":       ":8080",
		"log_level":         "info",

		// Empty token defaults make these keys known to viper, so
		// SCANCTL_GOOGLE_DRIVE_TOKEN and SCANCTL_GRAPH_TOKEN are read.
		"google_drive_token": "",
		"graph_token":        "",
	}
}

// Load resolves Settings from (in increasing priority) built-in defaults,
// an optional config file at configPath, SCANCTL_-prefixed environment
// variables, and already-parsed flags. Passing a nil flag set skips flag
// binding, for callers (like tests) that only need file/env resolution.
func Load(configPath string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) validate() error {
	switch s.Provider {
	case "gdrive", "onedrive":
	default:
		return fmt.Errorf("unknown provider %q (want gdrive or onedrive)", s.Provider)
	}
	if s.FetchConcurrency <= 0 {
		return fmt.Errorf("fetch_concurrency must be positive, got %d", s.FetchConcurrency)
	}
	return nil
}
