package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"plugin-resilience/internal/common/errors"
)

// Load reads the framework configuration. It looks for resilience.yaml in
// the given search paths (defaulting to ./configs and the working
// directory), merges environment overrides like RESILIENCE_HANDLER_MAX_RETRIES,
// and applies defaults for anything left unset. A missing config file is not
// an error; the defaults then apply.
func Load(searchPaths ...string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("resilience")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{"./configs", "."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("resilience")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("handler.max_retries", errors.DefaultMaxRetries)
	v.SetDefault("handler.retry_delay_ms", int(errors.DefaultRetryDelay/time.Millisecond))
	v.SetDefault("handler.enable_logging", true)
	v.SetDefault("handler.enable_reporting", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads a .env file when present, checking a few parent
// directories so tests and tooling can run from nested paths.
func loadEnvFile() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}
