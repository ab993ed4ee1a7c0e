// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	WakaTime WakaTimeConfig `toml:"wakatime"`
	Gist     GistConfig     `toml:"gist"`
	HTTP     HTTPConfig     `toml:"http"`
}

// WakaTimeConfig maps stats provider settings.
type WakaTimeConfig struct {
	BaseURL *string `toml:"base-url"`
	Range   *string `toml:"range"`
}

// GistConfig maps snippet publisher settings.
type GistConfig struct {
	BaseURL     *string `toml:"base-url"`
	Description *string `toml:"description"`
	Filename    *string `toml:"filename"`
}

// HTTPConfig maps transport settings.
type HTTPConfig struct {
	Timeout *duration `toml:"timeout"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays values set in the file onto cfg.
func (f FileConfig) Apply(cfg *Config) {
	applyString(&cfg.WakaTimeBaseURL, f.WakaTime.BaseURL)
	applyString(&cfg.StatsRange, f.WakaTime.Range)
	applyString(&cfg.GistBaseURL, f.Gist.BaseURL)
	applyString(&cfg.GistDescription, f.Gist.Description)
	applyString(&cfg.GistFilename, f.Gist.Filename)
	if f.HTTP.Timeout != nil && f.HTTP.Timeout.Duration > 0 {
		cfg.Timeout = f.HTTP.Timeout.Duration
	}
}

func applyString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

// Template returns a commented config file with default values.
func Template() string {
	return fmt.Sprintf(`# wakagist configuration
# Secrets are read from the environment (WAKATIME_SECRET_API_KEY,
# GITHUB_ACCESS_TOKEN, GIST_ID, DRY_RUN), never from this file.

[wakatime]
# base-url = %q
# range = %q

[gist]
# base-url = %q
# description = %q
# filename = ""            # empty: first file of the gist

[http]
# timeout = %q
`,
		DefaultWakaTimeBaseURL,
		DefaultStatsRange,
		DefaultGistBaseURL,
		DefaultGistDescription,
		DefaultTimeout.String(),
	)
}
