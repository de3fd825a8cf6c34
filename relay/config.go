package relay

import (
	"fmt"

	"github.com/alovak/checkout-relay/processor"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration for the relay. It is loaded once
// at startup and passed by injection; handlers never read the environment.
type Config struct {
	HTTPAddr     string
	Environment  processor.Environment
	ClientID     string
	ClientSecret string
	// StaticDir is the directory the storefront assets are served from,
	// relative to the working directory unless absolute.
	StaticDir string
	LogLevel  string
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:    ":3001",
		Environment: processor.Sandbox,
		StaticDir:   "static",
		LogLevel:    "info",
	}
}

// LoadConfig reads configuration from the environment with defaults applied.
// Processor credentials are required; everything else has a sane default.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", 3001)
	v.SetDefault("PAYPAL_ENVIRONMENT", string(processor.Sandbox))
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &Config{
		HTTPAddr:     fmt.Sprintf(":%d", v.GetInt("PORT")),
		Environment:  processor.Environment(v.GetString("PAYPAL_ENVIRONMENT")),
		ClientID:     v.GetString("PAYPAL_CLIENT_ID"),
		ClientSecret: v.GetString("PAYPAL_CLIENT_SECRET"),
		StaticDir:    v.GetString("STATIC_DIR"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}

	if cfg.ClientID == "" {
		return nil, fmt.Errorf("PAYPAL_CLIENT_ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("PAYPAL_CLIENT_SECRET is required")
	}
	switch cfg.Environment {
	case processor.Sandbox, processor.Live:
	default:
		return nil, fmt.Errorf("unsupported PAYPAL_ENVIRONMENT=%s", cfg.Environment)
	}

	return cfg, nil
}
