package app

import (
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/runner"
)

func init() { //nolint: gochecknoinits
	addSinkFlags(checkCmd)

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the connection to the configured sink",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyFlags(cmd, &cfg)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg.Import.DryRun = false

		r, err := runner.New(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		defer func() { _ = r.Close() }()

		return r.Check(cmd.Context()) //nolint:wrapcheck
	},
}
