package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// Exactly one of PageURL or PageFile is normally set. With PageFile the
	// saved HTML is attached as if it had been served from PageURL.
	PageURL         string        `mapstructure:"PAGE_URL"`
	PageFile        string        `mapstructure:"PAGE_FILE"`
	PageLoadTimeout time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	UserAgents      []string      `mapstructure:"USER_AGENTS"`

	HostURL     string        `mapstructure:"HOST_URL"`
	HostTimeout time.Duration `mapstructure:"HOST_TIMEOUT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SnapshotTTL   time.Duration `mapstructure:"SNAPSHOT_TTL"`

	ScanFeedbackDelay    time.Duration `mapstructure:"SCAN_FEEDBACK_DELAY"`
	NotificationDuration time.Duration `mapstructure:"NOTIFICATION_DURATION"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, file string) (*Config, error) {
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; production configures through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PAGE_URL", "")
	v.SetDefault("PAGE_FILE", "")
	v.SetDefault("PAGE_LOAD_TIMEOUT", "60s")
	v.SetDefault("USER_AGENTS", "")
	v.SetDefault("HOST_URL", "http://localhost:9090")
	v.SetDefault("HOST_TIMEOUT", "30s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SNAPSHOT_TTL", "10m")
	v.SetDefault("SCAN_FEEDBACK_DELAY", "2s")
	v.SetDefault("NOTIFICATION_DURATION", "3s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.UserAgents = splitList(cfg.UserAgents)
	return &cfg, nil
}

// splitList accepts both a real list and a single "a|b|c" env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, "|") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
