package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/runner"
)

func init() { //nolint: gochecknoinits
	addSinkFlags(importCmd)
	addImportFlags(importCmd)

	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [zone directory]",
	Short: "Import the zone files of a directory",
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, &cfg); err != nil {
			return err
		}

		if len(args) == 1 {
			cfg.Import.Dir = args[0]
		}

		return config.ValidateImport(cfg) //nolint:wrapcheck
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := runner.New(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		defer func() {
			if err := r.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close sink")
			}
		}()

		_, err = r.Run(cmd.Context())

		return err //nolint:wrapcheck
	},
}
