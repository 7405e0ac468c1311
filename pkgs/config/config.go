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

const (
	// DefaultFileName is the printer output placed in the home directory when no valid path is configured
	DefaultFileName = "printsink.prn"

	// MaxPathLength bounds the configured destination path
	MaxPathLength = 4096

	envPrefix = "PRINTSINK"
)

type Printer struct {
	Enabled bool
	Path    string

	// Idle is the silence after which the output file gets closed
	Idle time.Duration
	// Cadence is the emulated time between two idle checks (one video frame)
	Cadence time.Duration
}

type Configuration struct {
	Printer Printer
}

func NewConfig() (*Configuration, error) {
	// application configuration
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(".printsink")
	v.AddConfigPath("$HOME/")
	v.AddConfigPath(".")
	setDefaults(v)
	_ = v.SafeWriteConfig()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// the configuration file is fully optional
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
		}
	}

	return load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("printer.enabled", true)
	v.SetDefault("printer.path", "")
	v.SetDefault("printer.idle", "4s")
	v.SetDefault("printer.cadence", "20ms")
}

// bindEnv must run after the template is written, otherwise the environment ends up in the file
func bindEnv(v *viper.Viper) {
	// PRINTSINK_PRINTER_PATH=/tmp/out.prn
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func load(v *viper.Viper) (*Configuration, error) {
	config := Configuration{}
	if err := v.Unmarshal(&config); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if config.Printer.Idle <= 0 {
		return &config, fmt.Errorf("cannot parse config: printer.idle must be positive, got %s", config.Printer.Idle)
	}
	if config.Printer.Cadence <= 0 {
		return &config, fmt.Errorf("cannot parse config: printer.cadence must be positive, got %s", config.Printer.Cadence)
	}

	config.Printer.Path = ResolvePath(config.Printer.Path, os.UserHomeDir)
	return &config, nil
}

// ValidPath tells if a configured destination is worth trying at all
func ValidPath(path string) bool {
	return len(path) > 1 && len(path) <= MaxPathLength
}

// ResolvePath returns the configured path when it is valid, otherwise the
// default file in the home directory, or in the working directory when there is no home
func ResolvePath(configured string, home func() (string, error)) string {
	if ValidPath(configured) {
		return configured
	}

	if dir, err := home(); err == nil && dir != "" {
		path := filepath.Join(dir, DefaultFileName)
		if len(path) <= MaxPathLength {
			return path
		}
	}
	return "." + string(filepath.Separator) + DefaultFileName
}
