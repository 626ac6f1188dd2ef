// Package commands implements the casegen command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

// rootOptions holds the global flags shared by every subcommand
type rootOptions struct {
	verbosity  int
	jsonLogs   bool
	configPath string
	output     string
}

// NewRootCmd builds the casegen command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "casegen [paths...]",
		Short: "Generate xUnit shared case context sources from C# declarations",
		Long: `casegen scans C# sources for class and record declarations marked with
[SharedCaseContext] and generates three companion sources for each one:

  {Type}Collection  - xUnit collection definition sharing the context
  {Type}Assertions  - abstract assertions base classes bound to the fixture
  {Type}Fixture     - case arrangement fixture holding the shared context

Paths may be files or directories; directories are searched recursively for
*.cs files, skipping generated files and build output directories.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CASEGEN_* prefix, e.g. CASEGEN_OUTPUT_DIR)
3. Project config (nearest casegen.toml, or --config)
4. Default values

Examples:
  casegen tests/                     # Print generated sources to stdout
  casegen tests/ --output Generated  # Write Generated/*.g.cs
  casegen check --output Generated   # Fail when Generated/ is out of date
  casegen watch --output Generated   # Regenerate on every change
  casegen init                       # Write a default casegen.toml`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(opts.jsonLogs, opts.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: nearest "+config.FileName+")")
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory (default: stdout, or output.dir from config)")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.output != "" {
		cfg.Output.Dir = o.output
	}
	return cfg, nil
}

// sourcePaths prefers paths given on the command line over configured ones
func sourcePaths(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	if len(cfg.Sources.Paths) > 0 {
		return cfg.Sources.Paths
	}
	return []string{"."}
}
