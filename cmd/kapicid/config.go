package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	kapici "github.com/kapici-dev/kapici"
)

// fileConfig mirrors the optional YAML config file. Durations are plain
// strings in time.ParseDuration format ("15m", "24h").
type fileConfig struct {
	Listen string `yaml:"listen"`

	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"admin"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
		Issuer string `yaml:"issuer"`
	} `yaml:"jwt"`

	Throttle struct {
		MaxAttempts   int    `yaml:"max_attempts"`
		LockoutWindow string `yaml:"lockout_window"`
	} `yaml:"throttle"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Audit      bool `yaml:"audit"`
	Metrics    bool `yaml:"metrics"`
	Production bool `yaml:"production"`
}

// daemonConfig is the fully resolved runtime configuration: file values
// first, environment variables on top.
type daemonConfig struct {
	listen string

	redisAddr     string
	redisPassword string
	redisDB       int

	engine kapici.Config
}

func loadConfig(path string) (daemonConfig, error) {
	var fc fileConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return daemonConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return daemonConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := kapici.DefaultConfig()

	cfg.Admin.Username = override(fc.Admin.Username, "KAPICI_ADMIN_USERNAME")
	cfg.Admin.Password = override(fc.Admin.Password, "KAPICI_ADMIN_PASSWORD")
	if fc.Admin.Role != "" {
		cfg.Admin.Role = fc.Admin.Role
	}

	if secret := override(fc.JWT.Secret, "KAPICI_JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = []byte(secret)
	}
	if fc.JWT.Issuer != "" {
		cfg.JWT.Issuer = fc.JWT.Issuer
	}
	if fc.JWT.TTL != "" {
		ttl, err := time.ParseDuration(fc.JWT.TTL)
		if err != nil {
			return daemonConfig{}, fmt.Errorf("jwt.ttl: %w", err)
		}
		cfg.JWT.TTL = ttl
	}

	if fc.Throttle.MaxAttempts != 0 {
		cfg.Throttle.MaxAttempts = fc.Throttle.MaxAttempts
	}
	if fc.Throttle.LockoutWindow != "" {
		window, err := time.ParseDuration(fc.Throttle.LockoutWindow)
		if err != nil {
			return daemonConfig{}, fmt.Errorf("throttle.lockout_window: %w", err)
		}
		cfg.Throttle.LockoutWindow = window
	}

	cfg.Audit.Enabled = fc.Audit
	cfg.Metrics.Enabled = fc.Metrics
	cfg.Metrics.EnableLatencyHistograms = fc.Metrics
	cfg.Security.ProductionMode = fc.Production || os.Getenv("KAPICI_PRODUCTION") == "1"

	return daemonConfig{
		listen:        withDefault(override(fc.Listen, "KAPICI_LISTEN"), ":8406"),
		redisAddr:     override(fc.Redis.Addr, "KAPICI_REDIS_ADDR"),
		redisPassword: fc.Redis.Password,
		redisDB:       fc.Redis.DB,
		engine:        cfg,
	}, nil
}

// override prefers the environment variable over the file value.
func override(fileValue, envKey string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fileValue
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
