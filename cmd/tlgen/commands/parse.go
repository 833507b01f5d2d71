package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/tl"
)

var (
	parseFormat string
	parseStrict bool
)

// ParseCmd prints the parsed definitions of a schema
var ParseCmd = &cobra.Command{
	Use:   "parse [schema]",
	Short: "Show the definitions and diagnostics of a schema",
	Long: `Parse a TL schema and print its definitions.

The table format lists one row per definition with its id. The json and
yaml formats print the full parsed structure, including parameters and
documentation. Diagnostics for statements that fail to parse go to the
log and are summarised at the end.

Examples:
  tlgen parse                        # schema from the config
  tlgen parse td_api.tl --format yaml
  tlgen parse --strict               # exit non-zero on any failing statement`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	ParseCmd.Flags().StringVarP(&parseFormat, "format", "f", "table", "Output format: table, json, yaml")
	ParseCmd.Flags().BoolVar(&parseStrict, "strict", false, "Exit non-zero when any statement fails to parse")
}

func runParse(cmd *cobra.Command, args []string) error {
	schema := currentConfig().Generator.Schema
	if len(args) == 1 {
		schema = args[0]
	}

	defs, diags, err := tl.LoadFile(schema)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch parseFormat {
	case "json":
		data, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal definitions to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(defs)
		if err != nil {
			return errors.Wrap(err, "failed to marshal definitions to YAML")
		}
		fmt.Fprint(out, string(data))

	case "table":
		rows := pterm.TableData{{"Category", "Name", "ID", "Params", "Type"}}
		for _, def := range defs {
			rows = append(rows, []string{
				def.Category.String(),
				def.Name,
				fmt.Sprintf("#%08x", def.ID),
				fmt.Sprint(len(def.Params)),
				def.Type.String(),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		pterm.Info.Printfln("%d definitions, %d statements skipped", len(defs), len(diags))
		printDiagnostics(diags)

	default:
		return errors.Newf("unsupported format: %s (supported: table, json, yaml)", parseFormat)
	}

	if parseStrict && len(diags) > 0 {
		return errors.Newf("%d statements of %s failed to parse", len(diags), schema)
	}
	return nil
}
