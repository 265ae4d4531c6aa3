// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads uidcolumn settings from defaults, a yaml file,
// UIDCOLUMN_* environment variables and command line flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/uidcolumn/internal/uidtype"
)

// Config is the application configuration.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database"`
	Language string   `mapstructure:"language" yaml:"language"`
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
	// ColumnTypes binds extra column type names to registered ones,
	// e.g. {"order_id": "uuid_v4"}.
	ColumnTypes map[string]string `mapstructure:"column_types" yaml:"column_types,omitempty"`
}

// Database holds connection settings.
type Database struct {
	Type               string `mapstructure:"type" yaml:"type"`
	Dsn                string `mapstructure:"dsn" yaml:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns" yaml:"max_open_conns,omitempty"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_seconds" yaml:"conn_max_lifetime_seconds,omitempty"`
}

// Defaults returns the built-in defaults keyed the way viper expects.
func Defaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./uidcolumn.db",
		"language":      "en",
		"log_level":     "info",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "uidcolumn")
		default:
			configDir = "/etc/uidcolumn"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "uidcolumn")
	}

	return filepath.Join(configDir, "uidcolumn.yaml"), nil
}

// LoadConfig builds a T from defaults, the first uidcolumn.yaml found (or
// configFile when set), the environment and the flags of cmd. A missing
// config file is reported as viper.ConfigFileNotFoundError together with a
// config built from the remaining sources.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("uidcolumn")
	v.SetConfigType("yaml")
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		notFound = err
	}

	v.SetEnvPrefix("uidcolumn")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"db-type":   "database.type",
	"db-dsn":    "database.dsn",
	"lang":      "language",
	"log-level": "log_level",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// WriteConfigFile writes c to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the DSN may contain credentials.
	return os.WriteFile(path, data, 0600)
}

// ApplyColumnTypes binds every configured column type alias in r,
// replacing earlier bindings of the same name. Built-in names cannot be
// rebound.
func (c Config) ApplyColumnTypes(r *uidtype.Registry) error {
	names := make([]string, 0, len(c.ColumnTypes))
	for name := range c.ColumnTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if uidtype.IsBuiltin(name) {
			return fmt.Errorf("column_types.%s: %w", name, uidtype.ErrTypeExists)
		}
		target, err := r.Lookup(c.ColumnTypes[name])
		if err != nil {
			return fmt.Errorf("column_types.%s: %w", name, err)
		}
		r.Override(target.WithName(name))
	}
	return nil
}
