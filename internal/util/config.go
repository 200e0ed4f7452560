package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"themeradar/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	ConfigEnvVar      = "RADAR_CONFIG"
	DefaultConfigPath = "config.yaml"
)

type NewsFeedConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	// MaxElapsedSeconds bounds the retries of a single feed request
	MaxElapsedSeconds int `yaml:"max_elapsed_seconds"`
	Workers           int `yaml:"workers"`
}

// AppConfig is the full config file. Screener fields sit at the top
// level so a file holding only screener settings is still valid.
type AppConfig struct {
	domain.ScreenerConfig `yaml:",inline"`

	// Schedule is a cron spec, empty disables scheduled runs
	Schedule     string `yaml:"schedule"`
	Timezone     string `yaml:"timezone"`
	UniverseFile string `yaml:"universe_file"`
	// SnapshotFile replaces live quotes with a csv snapshot when set
	SnapshotFile string `yaml:"snapshot_file"`
	// NewsFile is read when no news feed secret is configured
	NewsFile     string         `yaml:"news_file"`
	NotifyEmails []string       `yaml:"notify_emails"`
	NewsFeed     NewsFeedConfig `yaml:"news_feed"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		ScreenerConfig: domain.DefaultScreenerConfig(),
		Schedule:       "",
		Timezone:       MarketTimezone,
		UniverseFile:   "universe.csv",
		NotifyEmails:   []string{},
		NewsFeed: NewsFeedConfig{
			RequestsPerSecond: 5,
			Burst:             5,
			MaxElapsedSeconds: 30,
			Workers:           10,
		},
	}
}

func ConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadAppConfig reads the yaml file over the defaults. A missing file is
// not an error. The screener section is validated before returning.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.ScreenerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadScreenerConfig is the screener section of the config at path
func LoadScreenerConfig(path string) (domain.ScreenerConfig, error) {
	cfg, err := LoadAppConfig(path)
	if err != nil {
		return domain.ScreenerConfig{}, err
	}
	return cfg.ScreenerConfig, nil
}
