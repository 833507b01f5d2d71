package am

import (
	"github.com/spf13/viper"
)

const (
	// DefaultDirPermissions is used for ~/.tlgen
	DefaultDirPermissions = 0750

	// DefaultFilePermissions is used for written config files
	DefaultFilePermissions = 0644

	// ProjectConfigName is the project config file searched upward from the working directory
	ProjectConfigName = "tlgen.toml"

	// EnvPrefix prefixes environment overrides: TLGEN_GENERATOR_SCHEMA
	EnvPrefix = "TLGEN"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generator defaults
	v.SetDefault("generator.schema", "td_api.tl")
	v.SetDefault("generator.output", "src/generated.rs")
	v.SetDefault("generator.client_output", "")
	v.SetDefault("generator.cargo_manifest", "")
	v.SetDefault("generator.bots_only_api", false)
	v.SetDefault("generator.impl_debug", true) // matches the crate's default features
	v.SetDefault("generator.impl_from_enum", false)
	v.SetDefault("generator.impl_from_type", false)
	v.SetDefault("generator.client", false)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	// Runtime defaults
	v.SetDefault("runtime.url", "ws://127.0.0.1:8090/tdjson")
	v.SetDefault("runtime.receive_timeout_ms", 2000) // tdjson's 2s poll
	v.SetDefault("runtime.requests_per_second", 0.0)
	v.SetDefault("runtime.burst", 1)

	// Compat defaults
	v.SetDefault("compat.tdlib", ">= 1.8.0")
}

// BindEnvVars binds every known key to its TLGEN_* environment variable,
// so that Unmarshal sees overrides for keys absent from all files.
func BindEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}
}
