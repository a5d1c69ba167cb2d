// Package config loads the error handling framework's configuration from
// YAML with environment overrides.
package config

import (
	"fmt"
	"time"

	"plugin-resilience/internal/common/errors"
)

// Config is the root configuration for the framework.
type Config struct {
	Handler HandlerConfig `mapstructure:"handler"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HandlerConfig holds the settings backing an errors.StrategyConfig.
type HandlerConfig struct {
	MaxRetries      int                    `mapstructure:"max_retries"`
	RetryDelayMs    int                    `mapstructure:"retry_delay_ms"`
	EnableLogging   bool                   `mapstructure:"enable_logging"`
	EnableReporting bool                   `mapstructure:"enable_reporting"`
	DefaultStrategy string                 `mapstructure:"default_strategy"`
	FallbackValues  map[string]interface{} `mapstructure:"fallback_values"`
}

// LoggingConfig controls the zap logger construction.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StrategyConfig converts the loaded settings into the handler's config.
func (h HandlerConfig) StrategyConfig() errors.StrategyConfig {
	return errors.StrategyConfig{
		MaxRetries:      h.MaxRetries,
		RetryDelay:      time.Duration(h.RetryDelayMs) * time.Millisecond,
		EnableLogging:   h.EnableLogging,
		EnableReporting: h.EnableReporting,
		FallbackValues:  h.FallbackValues,
	}
}

// Strategy parses the configured default strategy.
func (h HandlerConfig) Strategy() (errors.ErrorStrategy, error) {
	if h.DefaultStrategy == "" {
		return errors.StrategyRetry, nil
	}
	return errors.ParseStrategy(h.DefaultStrategy)
}

func validateConfig(cfg *Config) error {
	if cfg.Handler.MaxRetries < 0 {
		return fmt.Errorf("handler.max_retries must be non-negative, got %d", cfg.Handler.MaxRetries)
	}
	if cfg.Handler.RetryDelayMs < 0 {
		return fmt.Errorf("handler.retry_delay_ms must be non-negative, got %d", cfg.Handler.RetryDelayMs)
	}
	if cfg.Handler.DefaultStrategy != "" {
		if _, err := errors.ParseStrategy(cfg.Handler.DefaultStrategy); err != nil {
			return err
		}
	}
	return nil
}
