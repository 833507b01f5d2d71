// Package typegen generates source code from parsed TL definitions.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic analysis (metadata.go, namespace.go) derives recursion,
//     default-eligibility and namespace grouping from the definition set
//  2. Language-specific generators (rust/) format declarations from that analysis
//
// # Design Decisions
//
//   - Generation is a single deterministic pass: namespaces are sorted and
//     definitions keep schema order, so identical input gives identical bytes
//   - Metadata is built once per run and only read afterwards
//   - Output is assembled in memory and written once; a write failure aborts
//     the run instead of leaving a partial source file behind
package typegen

import (
	"io"

	"github.com/teranos/tlgen/tl"
)

// Generator defines the interface for language-specific code generators.
type Generator interface {
	// Generate writes the type, union and function declarations for defs.
	// source names the schema in the generated header.
	Generate(w io.Writer, source string, defs []*tl.Definition) error

	// FileExtension returns the file extension for this language (e.g., "rs")
	FileExtension() string

	// Language returns the language name (e.g., "rust")
	Language() string
}

// Config holds the build-time switches of a generation run.
type Config struct {
	// GenBotsOnlyAPI emits definitions and fields documented as "for bots only"
	GenBotsOnlyAPI bool `mapstructure:"bots_only_api"`
	// ImplDebug adds debug formatting to every generated type
	ImplDebug bool `mapstructure:"impl_debug"`
	// ImplFromEnum adds conversions from a union to each of its payload structs
	ImplFromEnum bool `mapstructure:"impl_from_enum"`
	// ImplFromType adds conversions from each payload struct to its union
	ImplFromType bool `mapstructure:"impl_from_type"`
	// Client adds a client struct with one method per function
	Client bool `mapstructure:"client"`
}

// DefaultConfig matches the switches enabled by default in generated crates.
func DefaultConfig() Config {
	return Config{ImplDebug: true}
}
