// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config 服務設定；缺少必要變數時啟動失敗
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	RedisAddr     string `env:"REDIS_ADDR,required,notEmpty"`
	RedisDB       int    `env:"REDIS_DB,required"`
	RedisPassword string `env:"REDIS_PASSWORD,required,notEmpty"`
	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`

	WorkerCount        int           `env:"WORKER_COUNT" envDefault:"1"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	ProfileCacheTTL    time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load 解析環境變數並檢查數值範圍
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("invalid WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("invalid REDIS_DB: %d", c.RedisDB)
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel)
	}
	if c.ProfileCacheTTL < 0 {
		return fmt.Errorf("invalid PROFILE_CACHE_TTL: %s", c.ProfileCacheTTL)
	}
	return nil
}
