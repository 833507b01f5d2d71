package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/version"
)

var (
	versionJSON   bool
	versionTDLib  string
	versionRemote bool
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tlgen version information",
	Long: `Display version, build time, commit hash, and platform information for the tlgen binary.

With --tdlib or --remote, also check a TDLib version against the
[compat] tdlib constraint: --tdlib takes the version directly, --remote
asks the bridge at runtime.url.`,
	RunE: runVersion,
}

func init() {
	VersionCmd.Flags().BoolVarP(&versionJSON, "json", "j", false, "Output version info as JSON")
	VersionCmd.Flags().StringVar(&versionTDLib, "tdlib", "", "Check this TDLib version against [compat] tdlib")
	VersionCmd.Flags().BoolVar(&versionRemote, "remote", false, "Check the TDLib version reported by the bridge")
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	if versionJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
	}

	tdlib := versionTDLib
	cfg := currentConfig()
	if versionRemote {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		remote, err := remoteTDLibVersion(ctx, cfg.Runtime)
		if err != nil {
			return err
		}
		tdlib = remote
	}
	if tdlib == "" {
		return nil
	}

	if err := version.CheckCompatibility(cfg.Compat.TDLib, tdlib); err != nil {
		return err
	}
	pterm.Success.Printfln("TDLib %s satisfies %q", tdlib, cfg.Compat.TDLib)
	return nil
}
