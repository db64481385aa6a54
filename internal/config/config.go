package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	BookingStore struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RatePerSecond   float64 `yaml:"rate_per_second"`
		RateBurst       int     `yaml:"rate_burst"`
	} `yaml:"booking_store"`

	Session struct {
		TimeoutMinutes int `yaml:"timeout_minutes"`
		HorizonDays    int `yaml:"horizon_days"`
		CleanupMinutes int `yaml:"cleanup_minutes"`
	} `yaml:"session"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Export struct {
		Enabled       bool   `yaml:"enabled"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"export"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`
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

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/staybook.db"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SessionTimeout returns the idle timeout for selection sessions.
func (c *Config) SessionTimeout() time.Duration {
	if c.Session.TimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

// BookingHorizon returns how far ahead dates may be booked.
func (c *Config) BookingHorizon() time.Duration {
	if c.Session.HorizonDays <= 0 {
		return 365 * 24 * time.Hour
	}
	return time.Duration(c.Session.HorizonDays) * 24 * time.Hour
}

// CleanupInterval returns how often idle sessions are swept.
func (c *Config) CleanupInterval() time.Duration {
	if c.Session.CleanupMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Session.CleanupMinutes) * time.Minute
}

// BackupInterval returns how often the database file is backed up.
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

// CacheTTL returns the Redis cache TTL for booking store reads.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.BookingStore.CacheTTLSeconds) * time.Second
}
