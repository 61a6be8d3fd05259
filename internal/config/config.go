package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"telegram"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	API struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RatePerSecond   float64 `yaml:"rate_per_second"`
		RateBurst       int     `yaml:"rate_burst"`
	} `yaml:"api"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		DurationOptions []int `yaml:"duration_options"`
		AlternativesCap int   `yaml:"alternatives_cap"`
		DebounceMillis  int   `yaml:"debounce_millis"`
	} `yaml:"booking"`
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
		cfg.Database.Path = "data/venuehub_bot.db"
	}
	if len(cfg.Booking.DurationOptions) == 0 {
		cfg.Booking.DurationOptions = []int{1, 2, 3, 4, 5, 6}
	}
	if cfg.Booking.AlternativesCap <= 0 {
		cfg.Booking.AlternativesCap = 4
	}

	return &cfg, nil
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) FetchDebounce() time.Duration {
	if c.Booking.DebounceMillis < 0 {
		return 0
	}
	if c.Booking.DebounceMillis == 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Booking.DebounceMillis) * time.Millisecond
}
