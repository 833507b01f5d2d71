package am

import (
	"os"
	"strings"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/typegen/util"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.tlgen/am.toml
	SourceProject     ConfigSource = "project"     // tlgen.toml
	SourceEnvironment ConfigSource = "environment" // TLGEN_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      any          `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// ConfigIntrospection lists every effective setting with its origin
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings" yaml:"settings"`
}

// GetConfigIntrospection returns the effective settings using the sources
// tracked while loading.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	loadMu.Lock()
	settings := viperInstance.AllSettings()
	sources := make(map[string]SourceInfo, len(ConfigSources))
	for k, v := range ConfigSources {
		sources[k] = v
	}
	loadMu.Unlock()

	in := &ConfigIntrospection{}
	flattenSettingsWithSources(settings, "", in, sources)
	return in, nil
}

// Lookup returns the setting stored under key, if any.
func (c *ConfigIntrospection) Lookup(key string) (SettingInfo, bool) {
	for _, s := range c.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return SettingInfo{}, false
}

func flattenSettingsWithSources(settings map[string]any, prefix string, in *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	for _, key := range util.SortedKeys(settings) {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			flattenSettingsWithSources(nested, fullKey, in, sourceMap)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		in.Settings = append(in.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}
