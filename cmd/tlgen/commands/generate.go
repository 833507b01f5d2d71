package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/am"
	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

var generateStrict bool

// GenerateCmd writes the Rust bindings
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Rust bindings from the schema",
	Long: `Generate Rust bindings from a TL schema.

Statements that fail to parse are reported and skipped; the rest of the
schema is still generated. Use --strict to fail instead.

Generator switches come from [generator] in the config, from the default
features of a Cargo manifest (--cargo-manifest), and from flags, in
increasing precedence.

Examples:
  tlgen generate
  tlgen generate --schema td_api.tl --output src/generated.rs
  tlgen generate --client-output src/client.rs --impl-from-type
  tlgen generate --cargo-manifest Cargo.toml`,
	RunE: runGenerate,
}

func init() {
	addGeneratorFlags(GenerateCmd)
	GenerateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Fail when any statement fails to parse")
}

// addGeneratorFlags registers the flags that override [generator]
func addGeneratorFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("schema", "s", "", "TL schema to read")
	f.StringP("output", "o", "", "Generated Rust file")
	f.String("client-output", "", "Separate file for the client module")
	f.String("cargo-manifest", "", "Take switches from the default features of this Cargo.toml")
	f.Bool("bots-only-api", false, "Include definitions documented as for bots only")
	f.Bool("impl-debug", true, "Derive Debug on generated types")
	f.Bool("impl-from-enum", false, "Generate TryFrom<enum> for payload structs")
	f.Bool("impl-from-type", false, "Generate From<struct> for enums")
	f.Bool("client", false, "Emit the client module into the main output")
}

// generatorConfig returns [generator] with the Cargo features and then
// the changed flags of cmd applied.
func generatorConfig(cmd *cobra.Command) (am.GeneratorConfig, error) {
	gen := currentConfig().Generator
	f := cmd.Flags()

	paths := map[string]*string{
		"schema":         &gen.Schema,
		"output":         &gen.Output,
		"client-output":  &gen.ClientOutput,
		"cargo-manifest": &gen.CargoManifest,
	}
	for name, dst := range paths {
		if !f.Changed(name) {
			continue
		}
		value, err := f.GetString(name)
		if err != nil {
			return gen, errors.Wrapf(err, "failed to read --%s", name)
		}
		*dst = value
	}

	if gen.CargoManifest != "" {
		features, err := am.LoadCargoFeatures(gen.CargoManifest)
		if err != nil {
			return gen, err
		}
		gen.ApplyFeatures(features)
		logger.Debugw("Applied Cargo features", logger.FieldFile, gen.CargoManifest, "features", features)
	}

	bools := map[string]*bool{
		"bots-only-api":  &gen.BotsOnlyAPI,
		"impl-debug":     &gen.ImplDebug,
		"impl-from-enum": &gen.ImplFromEnum,
		"impl-from-type": &gen.ImplFromType,
		"client":         &gen.Client,
	}
	for name, dst := range bools {
		if !f.Changed(name) {
			continue
		}
		value, err := f.GetBool(name)
		if err != nil {
			return gen, errors.Wrapf(err, "failed to read --%s", name)
		}
		*dst = value
	}
	return gen, nil
}

// validatedGenerator returns the effective generator config after
// validating it together with the rest of the configuration.
func validatedGenerator(cmd *cobra.Command) (am.GeneratorConfig, error) {
	gen, err := generatorConfig(cmd)
	if err != nil {
		return gen, err
	}
	cfg := currentConfig()
	cfg.Generator = gen
	if err := cfg.Validate(); err != nil {
		return cfg.Generator, err
	}
	return cfg.Generator, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen, err := validatedGenerator(cmd)
	if err != nil {
		return err
	}

	files, diags, err := regenerate(gen, generateStrict)
	printDiagnostics(diags)
	if err != nil {
		return err
	}

	for _, f := range files {
		pterm.Success.Printfln("Wrote %s (%d bytes)", f.path, len(f.data))
	}
	return nil
}

// printDiagnostics lists statements that failed to parse
func printDiagnostics(diags []error) {
	if len(diags) == 0 {
		return
	}
	pterm.Warning.Printfln("%d statements skipped:", len(diags))
	for _, d := range diags {
		pterm.Printfln("  %s", d)
	}
}
