package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casegen"
	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

func runGenerate(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	result, err := generate(cmd.Context(), cfg, sourcePaths(cfg, args), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.Output.Dir != "" {
		printGenerated(cmd.ErrOrStderr(), cfg, result)
	}
	return nil
}

// generate runs one full pass: load, scan, render, then write to the output directory
// or print to w when no directory is configured.
func generate(ctx context.Context, cfg *config.Config, paths []string, w io.Writer) (*casegen.Result, error) {
	log := logger.ComponentLogger("casegen.cli")
	start := time.Now()

	files, err := casegen.Load(ctx, paths, casegen.LoadOptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.Output.Dir == "" {
		sink := casegen.NewMemorySink()
		result, err := casegen.New(sink, casegen.WithConfig(cfg)).Run(files...)
		if err != nil {
			return nil, err
		}
		for _, src := range result.Sources {
			fmt.Fprintf(w, "// %s%s\n%s\n\n", src.Hint, cfg.Output.Suffix, src.Text)
		}
		return result, nil
	}

	sink := casegen.NewDirSink(cfg.Output.Dir, cfg.Output.Suffix, cfg.Output.Manifest)
	result, err := casegen.New(sink, casegen.WithConfig(cfg)).Run(files...)
	if err != nil {
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, err
	}

	log.Infow("Generation complete",
		logger.FieldCount, len(result.Sources),
		logger.FieldPath, cfg.Output.Dir,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

func printGenerated(w io.Writer, cfg *config.Config, result *casegen.Result) {
	if len(result.Contexts) == 0 {
		pterm.Fprintln(w, pterm.Yellow("No [SharedCaseContext] declarations found"))
		return
	}
	pterm.Fprintln(w, pterm.LightGreen(fmt.Sprintf("✓ Generated %d sources for %d shared contexts in %s",
		len(result.Sources), len(result.Contexts), cfg.Output.Dir)))
	for _, c := range result.Contexts {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Gray("→"), pterm.White(c.Namespace+"."+c.TypeName)))
	}
}

// requireOutputDir rejects commands that need generated files on disk
func requireOutputDir(cfg *config.Config, command string) error {
	if cfg.Output.Dir != "" {
		return nil
	}
	return errors.WithHint(
		errors.Newf("%s needs an output directory", command),
		"pass --output or set output.dir in "+config.FileName,
	)
}
