package config

import (
	"errors"
)

var (
	// ErrEmptyImportDir error if import.dir is empty.
	ErrEmptyImportDir = errors.New("toml config import.dir can not be empty")

	// ErrEmptyAPIURL error if the api sink is selected without api.url.
	ErrEmptyAPIURL = errors.New("toml config api.url can not be empty for the api sink")

	// ErrInvalidAPIURL error if api.url is not an absolute http(s) url.
	ErrInvalidAPIURL = errors.New("toml config api.url must be an http or https url")

	// ErrEmptyDBName error if the db sink is selected without db.name.
	ErrEmptyDBName = errors.New("toml config db.name can not be empty for the db sink")

	// ErrUnknownGormEngine error if db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptyPowerDNSURL error if the powerdns sink is selected without powerdns.url.
	ErrEmptyPowerDNSURL = errors.New("toml config powerdns.url can not be empty for the powerdns sink")

	// ErrInvalidImport error if an import setting is out of range.
	ErrInvalidImport = errors.New("toml config import section is invalid")
)
