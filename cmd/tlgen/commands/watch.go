package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tlgen/am"
	"github.com/teranos/tlgen/internal/watch"
	"github.com/teranos/tlgen/logger"
)

var watchDebounce time.Duration

// WatchCmd regenerates the bindings whenever the schema changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the schema changes",
	Long: `Generate once, then regenerate whenever the schema (or the Cargo
manifest, when configured) changes. Edits to the project config file are
picked up as well. Parse failures are reported and watching continues.

Examples:
  tlgen watch
  tlgen watch --debounce 1s`,
	RunE: runWatch,
}

func init() {
	addGeneratorFlags(WatchCmd)
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	gen, err := validatedGenerator(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the config watcher and the schema watcher may fire together
	var mu sync.Mutex
	run := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()

		// re-read so Cargo manifest and config edits take effect
		gen, err := validatedGenerator(cmd)
		if err != nil {
			return err
		}
		files, diags, err := regenerate(gen, false)
		printDiagnostics(diags)
		if err != nil {
			pterm.Error.Println(err)
			return err
		}
		for _, f := range files {
			pterm.Success.Printfln("Wrote %s", f.path)
		}
		return nil
	}

	if err := run(ctx); err != nil {
		logger.Warnw("Initial generation failed, watching anyway", logger.FieldError, err)
	}

	paths := []string{gen.Schema}
	if gen.CargoManifest != "" {
		paths = append(paths, gen.CargoManifest)
	}

	if path := configFile(); path != "" {
		cw, err := am.Watch(path, func(cfg *am.Config) error {
			setConfig(cfg)
			return run(ctx)
		})
		if err != nil {
			logger.Warnw("Not watching config file", logger.FieldFile, path, logger.FieldError, err)
		} else {
			defer cw.Stop()
			defer am.SetGlobalWatcher(nil)
		}
	}

	w, err := watch.New(run, watchDebounce, paths...)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Watching %v (Ctrl+C to stop)", paths)
	return w.Run(ctx)
}
