// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable whose JSON content overrides the file values.
const EnvConfigJSON = "ZONE_IMPORTER_CONFIG_JSON"

// Defaults applied by validate.
const (
	DefaultMaxIncludeDepth = 10
	DefaultTTL             = 86400
	DefaultAPITimeout      = 30 * time.Second
	DefaultUserID          = 1
)

// DefaultExtensions are the zone file extensions imported when none are configured.
var DefaultExtensions = []string{".zone", ".db", ".conf"} //nolint:gochecknoglobals

var validate = validator.New() //nolint:gochecknoglobals

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	if _, err := toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if env := os.Getenv(EnvConfigJSON); env != "" {
		var err error

		if c, err = decodeAndMergeConfig(c, env); err != nil {
			return c, err
		}
	}

	if err := Normalize(&c); err != nil {
		return c, err
	}

	return c, nil
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read config from "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// Normalize fills in defaults and checks the settings every command relies on.
func Normalize(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Import.MaxIncludeDepth == 0 {
		c.Import.MaxIncludeDepth = DefaultMaxIncludeDepth
	}

	if c.Import.DefaultTTL == 0 {
		c.Import.DefaultTTL = DefaultTTL
	}

	if len(c.Import.Extensions) == 0 {
		c.Import.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if c.Import.UserID == 0 {
		c.Import.UserID = DefaultUserID
	}

	if c.Import.Sink == "" {
		c.Import.Sink = SinkAPI
	}

	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	if err := validate.Struct(c.Import); err != nil {
		return errors.Wrap(ErrInvalidImport, err.Error())
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	return nil
}

// ValidateImport checks the settings an import run needs on top of Normalize.
func ValidateImport(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Import.Dir == "" {
		return errors.Wrap(ErrEmptyImportDir, invalidErrMessage)
	}

	// dry runs never reach the sink
	if c.Import.DryRun && !c.Import.SkipExisting {
		return nil
	}

	switch c.Import.Sink {
	case SinkAPI:
		if c.API.URL == "" {
			return errors.Wrap(ErrEmptyAPIURL, invalidErrMessage)
		}

		if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Wrap(ErrInvalidAPIURL, invalidErrMessage)
		}
	case SinkDB:
		if c.DB.Name == "" {
			return errors.Wrap(ErrEmptyDBName, invalidErrMessage)
		}
	case SinkPowerDNS:
		if c.PowerDNS.URL == "" {
			return errors.Wrap(ErrEmptyPowerDNSURL, invalidErrMessage)
		}
	}

	return nil
}
