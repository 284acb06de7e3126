// Package app implements the command line of the zone importer.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/logger"
)

// annotationNoConfig marks commands that run without etc/main.toml.
const annotationNoConfig = "noConfig"

var (
	configPath string // directory holding main.toml
	verbose    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "zone-importer",
		Short: "zone-importer imports BIND zone files into a DNS management backend",
		Long: `zone-importer reads BIND zone files, follows their $INCLUDE directives and writes
zones, records and include relations to the zone management API, its database or a
PowerDNS server.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadConfig reads the configuration and sets up the global logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[annotationNoConfig]; ok {
		cfg = config.Config{Log: defaultLog()}
		if err := config.Normalize(&cfg); err != nil {
			return err //nolint:wrapcheck
		}
	} else {
		var err error
		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err //nolint:wrapcheck
		}
	}

	if verbose {
		cfg.Log.Verbose = true
	}

	return errors.Wrap(logger.Init(cfg.Log), "init logger")
}

func defaultLog() logger.Log {
	return logger.Log{
		LogLevel:    "info",
		AppName:     "zone-importer",
		ServiceName: "zone-importer",
		Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
	}
}

// Execute runs the root command. Commands stop when ctx is done.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
