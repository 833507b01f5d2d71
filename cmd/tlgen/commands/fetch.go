package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/internal/fetch"
)

// FetchCmd downloads a schema
var FetchCmd = &cobra.Command{
	Use:   "fetch <source> [destination]",
	Short: "Download a schema (path, URL, git, s3)",
	Long: `Download a TL schema with go-getter and store it at the configured
generator.schema path, or at destination when given.

The download replaces the existing schema only if it contains at least
one TL definition.

Examples:
  tlgen fetch https://raw.githubusercontent.com/tdlib/td/master/td/generate/scheme/td_api.tl
  tlgen fetch git::https://github.com/tdlib/td//td/generate/scheme/td_api.tl?ref=v1.8.0
  tlgen fetch ./vendor/td_api.tl schema/td_api.tl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	dst := currentConfig().Generator.Schema
	if len(args) == 2 {
		dst = args[1]
	}

	spinner, _ := pterm.DefaultSpinner.Start("Fetching " + args[0])
	result, err := fetch.Schema(cmd.Context(), args[0], dst)
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return err
	}
	if spinner != nil {
		spinner.Success()
	}

	pterm.Success.Printfln("Saved %s: %d definitions", result.Path, result.Definitions)
	printDiagnostics(result.Errors)
	return nil
}
