package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment keys.
const (
	EnvWakaTimeKey = "WAKATIME_SECRET_API_KEY"
	EnvGitHubToken = "GITHUB_ACCESS_TOKEN"
	EnvGistID      = "GIST_ID"
	EnvDryRun      = "DRY_RUN"
	EnvConfigPath  = "WAKAGIST_CONFIG"
	EnvLogLevel    = "WAKAGIST_LOG_LEVEL"
)

// Defaults for values not set in the environment or config file.
const (
	DefaultWakaTimeBaseURL = "https://wakatime.com/api/v1"
	DefaultStatsRange      = "last_7_days"
	DefaultGistBaseURL     = "https://api.github.com"
	DefaultGistDescription = "📊 Weekly development breakdown"
	DefaultTimeout         = 60 * time.Second
)

var (
	// ErrMissing is wrapped by errors for required values that are absent or empty.
	ErrMissing = errors.New("required configuration value is missing")
	// ErrInvalid is wrapped by errors for values that cannot be parsed.
	ErrInvalid = errors.New("invalid configuration value")
)

// Error describes a configuration problem for a single key.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("configuration error for %s = %q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LookupFunc looks up a key the way os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// Config holds everything a run needs.
type Config struct {
	WakaTimeKey string
	GitHubToken string
	GistID      string
	DryRun      bool

	WakaTimeBaseURL string
	StatsRange      string
	GistBaseURL     string
	GistDescription string
	GistFilename    string
	Timeout         time.Duration
}

// Defaults returns a Config with only the non-secret defaults set.
func Defaults() Config {
	return Config{
		WakaTimeBaseURL: DefaultWakaTimeBaseURL,
		StatsRange:      DefaultStatsRange,
		GistBaseURL:     DefaultGistBaseURL,
		GistDescription: DefaultGistDescription,
		Timeout:         DefaultTimeout,
	}
}

// Load resolves the full run configuration. Every required key must be set.
func Load(lookup LookupFunc, file FileConfig) (Config, error) {
	cfg, err := loadStats(lookup, file)
	if err != nil {
		return Config{}, err
	}
	if cfg.GitHubToken, err = requireValue(lookup, EnvGitHubToken); err != nil {
		return Config{}, err
	}
	if cfg.GistID, err = requireValue(lookup, EnvGistID); err != nil {
		return Config{}, err
	}
	if cfg.DryRun, err = optionalBool(lookup, EnvDryRun); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadPreview resolves only what rendering needs; publishing keys are ignored.
func LoadPreview(lookup LookupFunc, file FileConfig) (Config, error) {
	cfg, err := loadStats(lookup, file)
	if err != nil {
		return Config{}, err
	}
	cfg.DryRun = true
	return cfg, nil
}

func loadStats(lookup LookupFunc, file FileConfig) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Defaults()
	file.Apply(&cfg)
	key, err := requireValue(lookup, EnvWakaTimeKey)
	if err != nil {
		return Config{}, err
	}
	cfg.WakaTimeKey = key
	return cfg, nil
}

func requireValue(lookup LookupFunc, key string) (string, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &Error{Key: key, Err: ErrMissing}
	}
	return v, nil
}

func optionalBool(lookup LookupFunc, key string) (bool, error) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, &Error{Key: key, Value: v, Err: ErrInvalid}
	}
	return parsed, nil
}
