package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid is returned for configuration values outside their allowed set.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the converter settings. Values come, in increasing
// precedence, from defaults, the config file, PHONEBILL_* environment
// variables (a .env file is loaded first) and command-line flags.
type Config struct {
	Debug    bool   `mapstructure:"debug"`
	Report   string `mapstructure:"report"`
	Year     int    `mapstructure:"year"`
	Strict   bool   `mapstructure:"strict"`
	Encoding string `mapstructure:"encoding"`
	Source   string `mapstructure:"source"`
	DB       string `mapstructure:"db"`
	Listen   string `mapstructure:"listen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Report:   "inline",
		Year:     2012,
		Encoding: "cp1250",
		Source:   "auto",
		Listen:   ":8080",
	}
}

// Options tells Load where to look.
type Options struct {
	// ConfigFile is an explicit config path. Empty searches for
	// phonebill.yaml in the working directory and $HOME/.phonebill.
	ConfigFile string
	// EnvFile is loaded into the environment if it exists. Empty means ".env".
	EnvFile string
	// Flags, when set, override file and environment values for every
	// flag the user changed.
	Flags *pflag.FlagSet
}

// Load builds a Config from all sources and validates it.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
	}

	v := viper.New()
	defaults := Default()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("report", defaults.Report)
	v.SetDefault("year", defaults.Year)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("source", defaults.Source)
	v.SetDefault("db", defaults.DB)
	v.SetDefault("listen", defaults.Listen)

	v.SetEnvPrefix("PHONEBILL")
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("phonebill")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.phonebill")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := v.BindPFlags(opts.Flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes enumerated values and checks them.
func (c *Config) Validate() error {
	c.Report = strings.ToLower(strings.TrimSpace(c.Report))
	c.Encoding = strings.ToLower(strings.TrimSpace(c.Encoding))
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))

	switch c.Encoding {
	case "cp1250", "windows-1250", "utf-8", "utf8":
	default:
		return fmt.Errorf("%w: encoding %q (want cp1250 or utf-8)", ErrInvalid, c.Encoding)
	}
	switch c.Source {
	case "auto", "library", "raw":
	default:
		return fmt.Errorf("%w: source %q (want auto, library or raw)", ErrInvalid, c.Source)
	}
	if c.Year < 1900 || c.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalid, c.Year)
	}
	return nil
}
