package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level healerguide configuration.
type Config struct {
	DBPath         string   `mapstructure:"db_path"`
	ContentPaths   []string `mapstructure:"content_paths"`
	KnownCritical  []string `mapstructure:"known_critical_abilities"`
	LogLevel       string   `mapstructure:"log_level"`
	Output         Output   `mapstructure:"output"`
	Watch          Watch    `mapstructure:"watch"`
	ConfigFileUsed string   `mapstructure:"-"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Watch defines content watcher settings.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with HEALERGUIDE_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("content_paths", DefaultContentPaths)
	v.SetDefault("known_critical_abilities", []string{})
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("watch.interval", DefaultWatchInterval)

	v.SetEnvPrefix("healerguide")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing config file is not an error.
	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if found {
		cfg.ConfigFileUsed = v.ConfigFileUsed()
	}

	if len(cfg.KnownCritical) == 0 {
		cfg.KnownCritical = append([]string(nil), DefaultKnownCritical...)
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatchInterval
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	for i, p := range cfg.ContentPaths {
		cfg.ContentPaths[i] = expandPath(p)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg.source(), err)
	}
	return &cfg, nil
}

// Validate reports every setting that cannot work.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.Output.Width < 0 {
		errs = append(errs, fmt.Errorf("output.width %d must not be negative", c.Output.Width))
	}
	for _, name := range c.KnownCritical {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("known_critical_abilities must not contain blank names"))
			break
		}
	}
	return errors.Join(errs...)
}

func (c *Config) source() string {
	if c.ConfigFileUsed == "" {
		return "(defaults and environment)"
	}
	return c.ConfigFileUsed
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
