package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/cmd/tlgen/commands"
	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

var (
	configPath string
	verbose    int
	jsonLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "tlgen",
	Short: "tlgen - Rust bindings from TDLib's TL schema",
	Long: `tlgen - Rust bindings from TDLib's TL schema.

tlgen parses a Type Language schema (td_api.tl) and generates Rust source:
serde structs for every constructor, @type-tagged enums for every union,
and async functions for every remote call.

Available commands:
  generate - Generate Rust bindings from the schema
  check    - Verify generated files are up to date
  parse    - Show the definitions and diagnostics of a schema
  watch    - Regenerate whenever the schema changes
  fetch    - Download a schema (path, URL, git, s3)
  call     - Send one request to a tdjson bridge
  am       - Manage tlgen configuration ("I am")
  version  - Show version information

Examples:
  tlgen generate                          # Generate using tlgen.toml
  tlgen generate --schema td_api.tl -o src/generated.rs
  tlgen check                             # Fail if src/generated.rs is stale
  tlgen parse --format yaml td_api.tl`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commands.LoadConfig(configPath)
		if err != nil {
			// Log with the flag settings so the failure is still visible
			_ = logger.InitializeWithVerbosity(verbose, jsonLogs)
			return err
		}
		if err := logger.InitializeWithVerbosity(max(verbose, cfg.Log.Verbosity), jsonLogs || cfg.Log.JSON); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.tlgen/am.toml merged with ./tlgen.toml)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.FetchCmd)
	rootCmd.AddCommand(commands.CallCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
