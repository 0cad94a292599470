package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/dkoster/smartdca/internal/core"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Collectors CollectorsConfig `mapstructure:"collectors"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	APIKey         string   `mapstructure:"api_key"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	JobTTLHours    int      `mapstructure:"job_ttl_hours"`
	MaxJobs        int      `mapstructure:"max_jobs"`
}

// CollectorsConfig controls the data-source fallback order. Providers are
// tried fully, in order; partial results are never merged across sources.
type CollectorsConfig struct {
	Providers []string `mapstructure:"providers"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// knownProviders lists the provider names the serve command can construct
var knownProviders = map[string]struct{}{
	"kucoin": {},
	"yahoo":  {},
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Collectors: CollectorsConfig{
			// Crypto source first, stock source on total failure
			Providers: []string{"kucoin", "yahoo"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Server.MaxJobs < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_jobs must be positive, got %d", c.Server.MaxJobs))
	}

	if len(c.Collectors.Providers) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("at least one collector provider is required"))
	}
	for _, name := range c.Collectors.Providers {
		if _, ok := knownProviders[name]; !ok {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown collector provider: %s", name))
		}
	}

	return nil
}
