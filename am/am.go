// Package am loads the tlgen configuration: generator switches and paths,
// logging, and the runtime settings of the tdjson session.
//
// Sources are merged in precedence order: built-in defaults, the user file
// ~/.tlgen/am.toml, the project file tlgen.toml (searched upward from the
// working directory), then TLGEN_* environment variables.
package am

import (
	"fmt"
	"time"

	"github.com/teranos/tlgen/typegen"
)

// Config represents the tlgen configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" yaml:"generator" json:"generator"`
	Log       LogConfig       `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Runtime   RuntimeConfig   `mapstructure:"runtime" toml:"runtime" yaml:"runtime" json:"runtime"`
	Compat    CompatConfig    `mapstructure:"compat" toml:"compat" yaml:"compat" json:"compat"`
}

// GeneratorConfig configures code generation
type GeneratorConfig struct {
	Schema        string `mapstructure:"schema" toml:"schema" yaml:"schema" json:"schema"`                                                               // TL schema to read
	Output        string `mapstructure:"output" toml:"output" yaml:"output" json:"output"`                                                               // generated Rust source
	ClientOutput  string `mapstructure:"client_output" toml:"client_output,omitempty" yaml:"client_output,omitempty" json:"client_output,omitempty"`     // separate client module file, empty = none
	CargoManifest string `mapstructure:"cargo_manifest" toml:"cargo_manifest,omitempty" yaml:"cargo_manifest,omitempty" json:"cargo_manifest,omitempty"` // read switches from Cargo default features

	BotsOnlyAPI  bool `mapstructure:"bots_only_api" toml:"bots_only_api" yaml:"bots_only_api" json:"bots_only_api"`
	ImplDebug    bool `mapstructure:"impl_debug" toml:"impl_debug" yaml:"impl_debug" json:"impl_debug"`
	ImplFromEnum bool `mapstructure:"impl_from_enum" toml:"impl_from_enum" yaml:"impl_from_enum" json:"impl_from_enum"`
	ImplFromType bool `mapstructure:"impl_from_type" toml:"impl_from_type" yaml:"impl_from_type" json:"impl_from_type"`
	Client       bool `mapstructure:"client" toml:"client" yaml:"client" json:"client"` // emit the client module into Output
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"` // same scale as -v
}

// RuntimeConfig configures the tdjson session
type RuntimeConfig struct {
	URL               string  `mapstructure:"url" toml:"url" yaml:"url" json:"url"` // websocket URL of the tdjson bridge
	ReceiveTimeoutMS  int     `mapstructure:"receive_timeout_ms" toml:"receive_timeout_ms" yaml:"receive_timeout_ms" json:"receive_timeout_ms"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"` // 0 = unlimited
	Burst             int     `mapstructure:"burst" toml:"burst" yaml:"burst" json:"burst"`
}

// CompatConfig pins the TDLib versions the generated bindings target
type CompatConfig struct {
	TDLib string `mapstructure:"tdlib" toml:"tdlib" yaml:"tdlib" json:"tdlib"` // semver constraint, e.g. ">= 1.8.0"
}

// Switches returns the generator switches.
func (g GeneratorConfig) Switches() typegen.Config {
	return typegen.Config{
		GenBotsOnlyAPI: g.BotsOnlyAPI,
		ImplDebug:      g.ImplDebug,
		ImplFromEnum:   g.ImplFromEnum,
		ImplFromType:   g.ImplFromType,
		Client:         g.Client,
	}
}

// ReceiveTimeout returns the receive timeout as a duration
func (r RuntimeConfig) ReceiveTimeout() time.Duration {
	return time.Duration(r.ReceiveTimeoutMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generator: {Schema: %s, Output: %s}, Runtime: {URL: %s}}",
		c.Generator.Schema, c.Generator.Output, c.Runtime.URL)
}
