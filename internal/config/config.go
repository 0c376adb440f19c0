// Package config loads the pstdoc settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to the upper-cased key, with dots turned into
// underscores, to name an environment override: PSTDOC_LOG_LEVEL.
const EnvPrefix = "PSTDOC"

// Defaults.
const (
	DefaultLogLevel = "info"
	DefaultCharset  = "iso-8859-1"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// CharsetConfig holds text decoding settings.
type CharsetConfig struct {
	// Default names the charset assumed for 8-bit text when an item records
	// no code page.
	Default string `mapstructure:"default" yaml:"default"`
}

// BoundaryConfig holds settings for MIME boundary generation.
type BoundaryConfig struct {
	// Seed seeds the boundary random source. Zero seeds it from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// Config is the top-level configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Charset  CharsetConfig  `mapstructure:"charset" yaml:"charset"`
	Boundary BoundaryConfig `mapstructure:"boundary" yaml:"boundary"`
}

// DefaultPath returns ~/.config/pstdoc/config.yaml, or config.yaml in the
// working directory when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "pstdoc", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: DefaultLogLevel},
		Charset: CharsetConfig{Default: DefaultCharset},
	}
}

// Load reads the configuration at path. A missing file is not an error: the
// defaults are used, still subject to environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("charset.default", DefaultCharset)
	v.SetDefault("boundary.seed", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// LogLevel returns the configured zerolog level. An unknown name is an error.
func (c *Config) LogLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}
