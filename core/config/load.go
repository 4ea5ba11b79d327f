package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ErrConfigExists is returned by Initialize when a configuration is already present.
var ErrConfigExists = errors.New("configuration already exists")

// Load reads the configuration layered as: built-in defaults, the file at
// path, then SIMPLESHELL_* environment variables.
//
// path may be a config.yaml file or the directory holding it. If path is
// empty the user configuration directory is searched and a missing file is
// not an error.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType(ConfigurationType)

	if err := v.MergeConfig(bytes.NewReader(defaultConfigData)); err != nil {
		return nil, fmt.Errorf("failed to merge default configuration: %w", err)
	}

	v.SetEnvPrefix(EnvironmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path == "":
		v.SetConfigName(strings.TrimSuffix(ConfigurationName, filepath.Ext(ConfigurationName)))
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppDirName))
		}
	case isDir(fs, path):
		v.SetConfigFile(filepath.Join(path, ConfigurationName))
	default:
		v.SetConfigFile(path)
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var out Configuration
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &out, nil
}

// Initialize writes the default configuration into dir.
func Initialize(fs afero.Fs, dir string) (string, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fs, target)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%s: %w", target, ErrConfigExists)
	}

	if err := afero.WriteFile(fs, target, defaultConfigData, 0644); err != nil {
		return "", err
	}
	return target, nil
}

func isDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}
