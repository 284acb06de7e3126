package app

import (
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/importer"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(exampleCmd)
}

var exampleCmd = &cobra.Command{
	Use:         "example",
	Short:       "Import a sample zone into memory and print the result",
	Annotations: map[string]string{annotationNoConfig: ""},
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := importer.RunExample(cmd.Context(), cmd.OutOrStdout())

		return err //nolint:wrapcheck
	},
}
