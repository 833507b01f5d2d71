package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/typegen"
)

// CheckCmd verifies that generated files match the schema
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify generated files are up to date",
	Long: `Regenerate in memory and compare byte-for-byte with the files on disk.

Exits non-zero when any output is missing or differs, reporting the first
differing line. Intended for CI.

Examples:
  tlgen check
  tlgen check --output src/generated.rs`,
	RunE: runCheck,
}

func init() {
	addGeneratorFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	gen, err := validatedGenerator(cmd)
	if err != nil {
		return err
	}

	files, _, err := render(gen, false)
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"File", "Status", "Line"}}
	var stale []*typegen.CheckResult
	for _, f := range files {
		result, err := typegen.CompareFile(f.data, f.path)
		if err != nil {
			return err
		}
		if result.UpToDate {
			rows = append(rows, []string{f.path, pterm.Green("up to date"), ""})
			continue
		}
		rows = append(rows, []string{f.path, pterm.Red("stale"), fmt.Sprint(result.Line)})
		stale = append(stale, result)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	for _, result := range stale {
		pterm.Error.Printfln("%s:%d", result.Path, result.Line)
		pterm.Printfln("  want: %s", result.Expected)
		pterm.Printfln("  got:  %s", result.Actual)
	}
	if len(stale) > 0 {
		return stale[0].Err()
	}
	return nil
}
