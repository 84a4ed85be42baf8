// Package config loads runtime settings from the process environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port     string `koanf:"port" validate:"required,numeric"`
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// JWTSecret turns on bearer token verification in the auth check log
	// lines. Requests are never rejected either way.
	JWTSecret string `koanf:"jwt_secret"`

	MetricsEnabled bool   `koanf:"metrics_enabled"`
	MetricsToken   string `koanf:"metrics_token" validate:"required_if=MetricsEnabled true"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"omitempty,dive,required"`
}

var keys = map[string]bool{
	"port":                 true,
	"log_level":            true,
	"jwt_secret":           true,
	"metrics_enabled":      true,
	"metrics_token":        true,
	"cors_allowed_origins": true,
}

func defaults() *Config {
	return &Config{
		Port:     "3000",
		LogLevel: "info",
	}
}

func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, any) {
		key := strings.ToLower(name)
		if !keys[key] || strings.TrimSpace(value) == "" {
			return "", nil
		}
		if key == "cors_allowed_origins" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
