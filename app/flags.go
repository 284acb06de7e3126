package app

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
)

// envPrefix prefixes the environment variables that override flags, e.g. ZONE_IMPORTER_API_TOKEN.
const envPrefix = "ZONE_IMPORTER"

// addSinkFlags registers the flags selecting and configuring the sink.
func addSinkFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.String("sink", "", "where to write: api, db or powerdns")
	f.Int64("user-id", 0, "user id recorded as creator")

	f.String("api-url", "", "base URL of the zone management API")
	f.String("api-token", "", "bearer token of the zone management API")
	f.Duration("api-timeout", 0, "timeout of one API request")

	f.String("db-engine", "", "database engine: mysql, postgres or sqlite")
	f.String("db-host", "", "database host")
	f.Int("db-port", 0, "database port")
	f.String("db-user", "", "database user")
	f.String("db-password", "", "database password")
	f.String("db-name", "", "database name, or file for sqlite")
	f.Bool("db-migrate", false, "create missing tables and columns")

	f.String("pdns-url", "", "PowerDNS API URL")
	f.String("pdns-api-key", "", "PowerDNS API key")
	f.String("pdns-vhost", "", "PowerDNS server id")
}

// addImportFlags registers the flags of an import run.
func addImportFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.String("dir", "", "directory with the zone files")
	f.String("root", "", "include sandbox root, defaults to the zone directory")
	f.Bool("dry-run", false, "parse and count without writing")
	f.Bool("skip-existing", false, "skip zones the sink already has")
	f.Bool("extensionless", false, "also import files without an extension")
	f.StringSlice("exclude", nil, "file name globs to leave out")
	f.Int("max-include-depth", 0, "maximum $INCLUDE nesting")
	f.Uint32("default-ttl", 0, "TTL of zones without $TTL")
	f.Bool("allow-absolute-includes", false, "follow absolute $INCLUDE paths inside the root")
	f.Bool("absolute-outside-root", false, "follow absolute $INCLUDE paths anywhere, needs --allow-absolute-includes")
	f.StringSlice("search-path", nil, "extra directories searched for includes")
	f.String("metrics-file", "", "write prometheus metrics of the run to this file")
}

// applyFlags overrides c with the flags set on cmd and the matching environment variables.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	slice := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = v.GetStringSlice(key)
		}
	}

	str("sink", &c.Import.Sink)
	str("api-url", &c.API.URL)
	str("api-token", &c.API.Token)
	str("db-engine", &c.DB.GormEngine)
	str("db-host", &c.DB.Host)
	str("db-user", &c.DB.User)
	str("db-password", &c.DB.Password)
	str("db-name", &c.DB.Name)
	boolean("db-migrate", &c.DB.AutoMigrate)
	str("pdns-url", &c.PowerDNS.URL)
	str("pdns-api-key", &c.PowerDNS.APIKey)
	str("pdns-vhost", &c.PowerDNS.VHost)

	str("dir", &c.Import.Dir)
	str("root", &c.Import.Root)
	boolean("dry-run", &c.Import.DryRun)
	boolean("skip-existing", &c.Import.SkipExisting)
	boolean("extensionless", &c.Import.Extensionless)
	slice("exclude", &c.Import.Exclude)
	boolean("allow-absolute-includes", &c.Import.AllowAbsoluteIncludes)
	boolean("absolute-outside-root", &c.Import.AbsoluteIncludesOutsideRoot)
	slice("search-path", &c.Import.SearchPaths)
	str("metrics-file", &c.Import.MetricsFile)

	if v.IsSet("user-id") {
		c.Import.UserID = v.GetInt64("user-id")
	}

	if v.IsSet("api-timeout") {
		c.API.Timeout = v.GetDuration("api-timeout")
	}

	if v.IsSet("db-port") {
		c.DB.Port = v.GetInt("db-port")
	}

	if v.IsSet("max-include-depth") {
		c.Import.MaxIncludeDepth = v.GetInt("max-include-depth")
	}

	if v.IsSet("default-ttl") {
		c.Import.DefaultTTL = v.GetUint32("default-ttl")
	}

	return config.Normalize(c) //nolint:wrapcheck
}
