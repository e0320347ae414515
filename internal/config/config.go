package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjy-dev/lcovsum/internal/lcov"
	"github.com/zjy-dev/lcovsum/internal/logger"
)

// ConfigName is the base name of the config file searched for when no
// explicit path is given (lcovsum.yaml, lcovsum.yml, lcovsum.toml, ...).
const ConfigName = "lcovsum"

// EnvPrefix prefixes environment overrides, e.g. LCOVSUM_THRESHOLDS_LOW=60.
const EnvPrefix = "LCOVSUM"

// Thresholds sets where a percentage turns from red to yellow (Low) and from
// yellow to green (High).
type Thresholds struct {
	Low  float64 `mapstructure:"low" yaml:"low"`
	High float64 `mapstructure:"high" yaml:"high"`
}

// Config holds the settings of the lcovsum command.
type Config struct {
	LogLevel   string     `mapstructure:"log_level" yaml:"log_level"`
	Color      bool       `mapstructure:"color" yaml:"color"`
	OnOrphan   string     `mapstructure:"on_orphan" yaml:"on_orphan"`
	TrimAt     string     `mapstructure:"trim_at" yaml:"trim_at"`
	Thresholds Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Color:    true,
		OnOrphan: "skip",
		TrimAt:   "/src",
		Thresholds: Thresholds{
			Low:  70,
			High: 80,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("color", d.Color)
	v.SetDefault("on_orphan", d.OnOrphan)
	v.SetDefault("trim_at", d.TrimAt)
	v.SetDefault("thresholds.low", d.Thresholds.Low)
	v.SetDefault("thresholds.high", d.Thresholds.High)
}

// Load reads the configuration. With an empty configFile it looks for
// lcovsum.* in the working directory and in configs/, and falls back to the
// defaults when none exists. An explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the command cannot use.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, err := lcov.ParseOrphanPolicy(c.OnOrphan); err != nil {
		return fmt.Errorf("invalid on_orphan: %w", err)
	}
	t := c.Thresholds
	if t.Low < 0 || t.High > 100 || t.Low > t.High {
		return fmt.Errorf("invalid thresholds: need 0 <= low (%g) <= high (%g) <= 100", t.Low, t.High)
	}
	return nil
}

// OrphanPolicy returns the parsed on_orphan setting.
func (c *Config) OrphanPolicy() lcov.OrphanPolicy {
	p, _ := lcov.ParseOrphanPolicy(c.OnOrphan)
	return p
}
