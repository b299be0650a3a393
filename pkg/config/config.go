// Package config provides configuration management for the streamgraph engine.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	appErrors "github.com/fur0rem/streamgraph/pkg/errors"
)

// Config holds all configuration for the application.
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Log    LogConfig    `mapstructure:"log"`
}

// EngineConfig holds configuration for the build/query engine.
type EngineConfig struct {
	// MaxWorkers bounds the worker pool used to verify the link-presence
	// invariant during Build. 0 or 1 means sequential verification.
	MaxWorkers int `mapstructure:"max_workers"`

	// StrictParse is read from the configuration but not consulted:
	// Engine.Build always runs the sgaformat reader with its default
	// options, which fail on the first malformed line.
	StrictParse bool `mapstructure:"strict_parse"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/streamgraph")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to read config file", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.max_workers", 1)
	v.SetDefault("engine.strict_parse", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.MaxWorkers < 0 {
		return appErrors.New(appErrors.CodeConfigError, "engine.max_workers must not be negative")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return appErrors.New(appErrors.CodeConfigError, fmt.Sprintf("unsupported log format: %q", c.Log.Format))
	}
	return nil
}
