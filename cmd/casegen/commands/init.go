package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Long: `Write the default configuration to ` + config.FileName + ` in the current
directory, or to the path given with --config.

Examples:
  casegen init
  casegen init --force --output Generated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.FileName
			}

			cfg := config.Default()
			if opts.output != "" {
				cfg.Output.Dir = opts.output
			}
			if err := config.Save(cfg, path, force); err != nil {
				return err
			}

			pterm.Fprintln(cmd.OutOrStdout(), pterm.LightGreen(fmt.Sprintf("✓ Wrote %s", path)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
