package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"chewsy/internal/schedule"
)

type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"telegram"`

	Catalog struct {
		Path            string `yaml:"path"`
		URL             string `yaml:"url"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"catalog"`

	Database struct {
		Path   string       `yaml:"path"`
		Backup BackupConfig `yaml:"backup"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Suggest struct {
		TravelBufferMinutes   int `yaml:"travel_buffer_minutes"`
		SessionTimeoutMinutes int `yaml:"session_timeout_minutes"`
	} `yaml:"suggest"`

	Managers []int64 `yaml:"managers"`
}

// BackupConfig controls periodic copies of the journal database.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StoragePath   string `yaml:"storage_path"`
	RetentionDays int    `yaml:"retention_days"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Catalog.Path == "" && cfg.Catalog.URL == "" {
		cfg.Catalog.Path = "data/food.json"
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/chewsy.db"
	}
	if cfg.Database.Backup.Enabled && cfg.Database.Backup.StoragePath == "" {
		cfg.Database.Backup.StoragePath = "data/backups"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TravelBuffer returns the viability travel buffer in minutes.
func (c *Config) TravelBuffer() int {
	if c.Suggest.TravelBufferMinutes <= 0 {
		return schedule.DefaultTravelBuffer
	}
	return c.Suggest.TravelBufferMinutes
}

// SessionTimeout returns how long an idle chat keeps its cycle.
func (c *Config) SessionTimeout() time.Duration {
	if c.Suggest.SessionTimeoutMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Suggest.SessionTimeoutMinutes) * time.Minute
}

// CatalogCacheTTL returns the Redis cache TTL for a remote catalog.
func (c *Config) CatalogCacheTTL() time.Duration {
	if c.Catalog.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Catalog.CacheTTLSeconds) * time.Second
}
