// Package config loads manifest settings from defaults, an optional
// config.yaml, MANIFEST_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	AppName        = "manifest"
	EnvPrefix      = "MANIFEST"
	configFileName = "config"
	configFileType = "yaml"

	KeyOutputDir = "output_dir"
	KeyStartDir  = "start_dir"
	KeyLogLevel  = "log_level"
	KeyLogFile   = "log_file"

	defaultOutputDir = "."
	defaultLogLevel  = "info"
)

// Config holds the resolved settings.
type Config struct {
	// OutputDir is where exported .PBS files are written.
	OutputDir string
	// StartDir is the directory the file picker opens in. Empty means the
	// working directory.
	StartDir string
	// LogLevel is a zap level name.
	LogLevel string
	// LogFile receives logs. Empty disables logging in the interactive UI.
	LogFile string
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutputDir, defaultOutputDir)
	v.SetDefault(KeyStartDir, "")
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultDir is the directory searched for config.yaml when no explicit file
// is given.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads configFile, or config.yaml from DefaultDir when configFile is
// empty, and resolves the settings. A missing default config file is not an
// error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		OutputDir: v.GetString(KeyOutputDir),
		StartDir:  v.GetString(KeyStartDir),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFile:   v.GetString(KeyLogFile),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%s must not be empty", KeyOutputDir)
	}
	return nil
}
