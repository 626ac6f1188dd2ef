package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casegen"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check if generated sources are up to date",
		Long: `Regenerate in memory and compare with the files in the output directory.

Missing, changed and orphaned generated files are reported; changed files
are shown as a line diff.

Exit codes:
  0 - Generated sources are up to date
  1 - Generated sources are out of date (diff shown), or the check failed

Examples:
  casegen check --output Generated`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := requireOutputDir(cfg, "check"); err != nil {
		return err
	}

	files, err := casegen.Load(cmd.Context(), sourcePaths(cfg, args), casegen.LoadOptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	sink := casegen.NewMemorySink()
	if _, err := casegen.New(sink, casegen.WithConfig(cfg)).Run(files...); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pterm.Fprintln(out, "Checking generated sources...")

	result, err := casegen.Check(sink.Sources(), cfg.Output.Dir, cfg.Output.Suffix)
	if result == nil {
		return err
	}
	if result.UpToDate {
		pterm.Fprintln(out, pterm.LightGreen(fmt.Sprintf("✓ %d generated sources are up to date", result.Checked)))
		return nil
	}

	pterm.Fprintln(out, pterm.Red("✗ Generated sources are out of date."))
	for _, d := range result.Differences {
		printDifference(out, d)
	}
	if err == nil {
		err = errors.ErrStale
	}
	return err
}

func printDifference(w io.Writer, d casegen.Difference) {
	switch {
	case d.Missing:
		pterm.Fprintln(w, fmt.Sprintf("\n%s %s", pterm.Yellow("missing:"), d.File))
	case d.Orphan:
		pterm.Fprintln(w, fmt.Sprintf("\n%s %s", pterm.Yellow("orphan:"), d.File))
	default:
		pterm.Fprintln(w, fmt.Sprintf("\n%s %s", pterm.Yellow("changed:"), d.File))
		for _, line := range strings.SplitAfter(d.Diff, "\n") {
			switch {
			case strings.HasPrefix(line, "- "):
				pterm.Fprint(w, pterm.Red(line))
			case strings.HasPrefix(line, "+ "):
				pterm.Fprint(w, pterm.Green(line))
			default:
				pterm.Fprint(w, line)
			}
		}
	}
}
