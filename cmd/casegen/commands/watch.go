package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casegen"
	"github.com/JeremiahSanders/testingutils-xunit-extras/casegen/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate sources whenever C# inputs change",
		Long: `Generate once, then watch the source paths and regenerate after each burst
of changes to *.cs files. Generated files are ignored. Runs until interrupted.

Examples:
  casegen watch --output Generated
  casegen watch tests/ -v`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args)
		},
	}
}

func runWatch(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := requireOutputDir(cfg, "watch"); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := sourcePaths(cfg, args)
	status := cmd.ErrOrStderr()

	result, err := generate(ctx, cfg, paths, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	printGenerated(status, cfg, result)

	regenerate := func(ctx context.Context, runID string, changed []string) error {
		// Each pass writes through a fresh sink so renamed contexts do not collide
		// with sources from earlier passes.
		result, err := generate(ctx, cfg, paths, cmd.OutOrStdout())
		if err != nil {
			PrintError(status, err)
			return err
		}
		printGenerated(status, cfg, result)
		return nil
	}

	w, err := watch.New(paths, casegen.LoadOptionsFromConfig(cfg),
		time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, regenerate)
	if err != nil {
		return err
	}

	pterm.Fprintln(status, pterm.LightCyan("Watching for changes (Ctrl+C to stop)..."))
	return w.Run(ctx)
}
