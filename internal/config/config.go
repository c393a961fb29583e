package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	PreviewStoreMemory = "memory"
	PreviewStoreRedis  = "redis"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
	PreviewStore    string        `mapstructure:"PREVIEW_STORE"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	PreviewTTL      time.Duration `mapstructure:"PREVIEW_TTL"`
	AutoMigrate     bool          `mapstructure:"AUTO_MIGRATE"`
	UploadRateLimit string        `mapstructure:"UPLOAD_RATE_LIMIT"`
}

// Load reads .env when present; the environment always wins.
func Load() (Config, error) {
	return load(".env")
}

func load(envFile string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("PREVIEW_STORE", PreviewStoreMemory)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PREVIEW_TTL", "30m")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("UPLOAD_RATE_LIMIT", "30-M")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch c.PreviewStore {
	case PreviewStoreMemory:
	case PreviewStoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when PREVIEW_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown PREVIEW_STORE %q", c.PreviewStore)
	}
	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadSizeMB)
	}
	return nil
}

func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}
