package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// config holds the service settings. Values come from an optional YAML
// file (VALIDOC_CONFIG) overridden by environment variables.
type config struct {
	Port        string        `yaml:"port"`
	LogLevel    string        `yaml:"log_level"`
	MaxUploadMB int64         `yaml:"max_upload_mb"`
	DNSTimeout  time.Duration `yaml:"dns_timeout"`
	CORSOrigins []string      `yaml:"cors_origins"`
}

func defaultConfig() config {
	return config{
		Port:        "8080",
		LogLevel:    "info",
		MaxUploadMB: 50,
		DNSTimeout:  5 * time.Second,
		CORSOrigins: []string{"*"},
	}
}

// loadConfig merges defaults ← YAML file ← environment.
func loadConfig() (config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("VALIDOC_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = env("PORT", cfg.Port)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		cfg.MaxUploadMB = n
	}
	if v := os.Getenv("MAILCHECK_DNS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("MAILCHECK_DNS_TIMEOUT: %w", err)
		}
		cfg.DNSTimeout = d
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
