package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/tlgen/errors"
)

var (
	loadMu        sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file each key was last set from during loading
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the tlgen configuration using Viper. The result is cached
// until Reset.
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	loadMu.Lock()
	defer loadMu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapInvalidConfig(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults and environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()

	fileViper := viper.New()
	fileViper.SetConfigFile(configPath)
	fileViper.SetConfigType("toml")
	if err := fileViper.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", configPath),
			"run 'tlgen am init' to write a config file with the defaults",
		)
	}
	if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
		return nil, errors.WrapInvalidConfig(err, configPath)
	}

	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	loadMu.Lock()
	defer loadMu.Unlock()

	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// newViperWithoutEnv returns a Viper holding only the defaults
func newViperWithoutEnv() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	SetDefaults(v)
	return v
}

// newViper returns a Viper with defaults and environment binding
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	BindEnvVars(v)
	return v
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := newViper()
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// UserConfigPath returns ~/.tlgen/am.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tlgen", "am.toml")
}

// FindProjectConfig searches for tlgen.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges configuration files in precedence order
// (lowest to highest): user < project. Environment variables win over both.
func mergeConfigFiles(v *viper.Viper) {
	type configFile struct {
		path   string
		source ConfigSource
	}
	files := []configFile{
		{UserConfigPath(), SourceUser},
		{FindProjectConfig(), SourceProject},
	}

	for _, file := range files {
		if file.path == "" {
			continue
		}
		if _, err := os.Stat(file.path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(file.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: file.source, Path: file.path}
		}
	}
}
