package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of TOML")

	rootCmd.AddCommand(configCmd)
}

var (
	asJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if asJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(redact(cfg))
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err //nolint:wrapcheck
		},
	}
)

// redact hides credentials.
func redact(c config.Config) config.Config {
	const hidden = "********"

	if c.API.Token != "" {
		c.API.Token = hidden
	}

	if c.DB.Password != "" {
		c.DB.Password = hidden
	}

	if c.PowerDNS.APIKey != "" {
		c.PowerDNS.APIKey = hidden
	}

	return c
}
