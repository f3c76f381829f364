package config

import (
	"encoding/json"
	"os"
)

// Config is the process configuration, loaded from a JSON file with
// environment overrides for secrets.
type Config struct {
	Bot        BotConfig        `json:"bot"`
	Logging    LoggingConfig    `json:"logging"`
	Snapshot   SnapshotConfig   `json:"snapshot"`
	Ingest     IngestConfig     `json:"ingest"`
	Watchdog   WatchdogConfig   `json:"watchdog"`
	Extensions ExtensionsConfig `json:"extensions"`
}

type BotConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	Path  string `json:"path"`
}

type SnapshotConfig struct {
	// Path of the sqlite file caching remote extension configs. Empty
	// disables snapshotting.
	Path string `json:"path"`
}

type IngestConfig struct {
	QueueSize int `json:"queue_size"`
}

type WatchdogConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalSeconds int  `json:"interval_seconds"`
	MaxQueueDepth   int  `json:"max_queue_depth"`
	MaxRSSMegabytes int  `json:"max_rss_mb"`
}

// ExtensionsConfig maps guild IDs to each extension's configuration
// source: either an inline JSON object or a JSON string holding a URL.
type ExtensionsConfig struct {
	FetchTimeoutSeconds int                        `json:"fetch_timeout_seconds"`
	Rules               map[string]json.RawMessage `json:"rules"`
	HelpChannels        map[string]json.RawMessage `json:"help_channels"`
}

var globalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}

	globalConfig = &cfg
	return &cfg, nil
}

func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Bot.Token = os.Getenv("DISCORD_TOKEN")
	globalConfig = cfg
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Path == "" {
		cfg.Logging.Path = "chatmod.log"
	}
	if cfg.Ingest.QueueSize <= 0 {
		cfg.Ingest.QueueSize = 4096
	}
	if cfg.Extensions.FetchTimeoutSeconds <= 0 {
		cfg.Extensions.FetchTimeoutSeconds = 10
	}
	if cfg.Watchdog.IntervalSeconds <= 0 {
		cfg.Watchdog.IntervalSeconds = 30
	}
	if cfg.Watchdog.MaxQueueDepth <= 0 {
		cfg.Watchdog.MaxQueueDepth = cfg.Ingest.QueueSize / 2
	}
	if cfg.Watchdog.MaxRSSMegabytes <= 0 {
		cfg.Watchdog.MaxRSSMegabytes = 512
	}
}

func Get() *Config {
	if globalConfig == nil {
		return DefaultConfig()
	}
	return globalConfig
}
