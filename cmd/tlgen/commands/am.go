package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tlgen/am"
	"github.com/teranos/tlgen/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage tlgen configuration",
	Long: `am - Manage tlgen configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TLGEN_* prefix, e.g. TLGEN_GENERATOR_SCHEMA)
3. Project config (./tlgen.toml, searched upward)
4. User config (~/.tlgen/am.toml)
5. Default values

Examples:
  tlgen am show                    # Show current configuration
  tlgen am show --format yaml      # Show configuration as YAML
  tlgen am get generator.schema    # Get one value
  tlgen am where                   # Show where each value comes from
  tlgen am init                    # Write ./tlgen.toml with the defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., generator.schema, runtime.url)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value is loaded from",
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the defaults",
	Long:  "Write the default configuration to path (default ./tlgen.toml). Existing files are kept unless --force is given; the previous version is rotated to .back1.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAmInit,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# tlgen configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# tlgen configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}
	setting, ok := intro.Lookup(args[0])
	if !ok {
		return errors.WithHint(errors.Newf("configuration key %q not found", args[0]),
			"run 'tlgen am where' to list every key")
	}
	fmt.Fprintln(cmd.OutOrStdout(), setting.Value)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [USER]     %s\n", am.UserConfigPath())
	fmt.Fprintf(out, "  3. [PROJECT]  ./%s (searches up directories)\n", am.ProjectConfigName)
	fmt.Fprintf(out, "  4. [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(out)

	rows := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		value := fmt.Sprint(s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		rows = append(rows, []string{s.Key, value, string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectConfigName
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to overwrite it")
	}

	cfg, err := am.Defaults()
	if err != nil {
		return err
	}
	if err := am.Save(cfg, path); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
