package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/logger"
)

// Sink kinds.
const (
	SinkAPI      = "api"
	SinkDB       = "db"
	SinkPowerDNS = "powerdns"
)

// Config overall data structure.
type Config struct {
	Title    string     `toml:"title"`
	Log      logger.Log `toml:"log"`
	Import   Import     `toml:"import"`
	API      API        `toml:"api"`
	DB       DB         `toml:"db"`
	PowerDNS PowerDNS   `toml:"powerdns"`
}

// Import holds the importer settings.
type Import struct {
	Dir           string   `toml:"dir"`  // directory with the zone files
	Root          string   `toml:"root"` // include sandbox root, defaults to Dir
	Extensions    []string `toml:"extensions"`
	Extensionless bool     `toml:"extensionless"` // also import files without an extension
	Exclude       []string `toml:"exclude"`       // file name globs to leave out

	MaxIncludeDepth             int      `toml:"maxIncludeDepth" validate:"gte=1,lte=64"`
	AllowAbsoluteIncludes       bool     `toml:"allowAbsoluteIncludes"`
	AbsoluteIncludesOutsideRoot bool     `toml:"absoluteIncludesOutsideRoot"`
	SearchPaths                 []string `toml:"searchPaths"`

	DefaultTTL   uint32 `toml:"defaultTTL" validate:"gte=1"`
	DryRun       bool   `toml:"dryRun"`
	SkipExisting bool   `toml:"skipExisting"`
	UserID       int64  `toml:"userID" validate:"gte=1"`
	Sink         string `toml:"sink" validate:"oneof=api db powerdns"`
	MetricsFile  string `toml:"metricsFile"`
}

// API holds the remote write API settings.
type API struct {
	URL     string        `toml:"url"`
	Token   string        `toml:"token"`
	Timeout time.Duration `toml:"timeout"`
}

// PowerDNS holds the PowerDNS HTTP API settings.
type PowerDNS struct {
	URL    string `toml:"url"`
	APIKey string `toml:"apiKey"`
	VHost  string `toml:"vhost"`
}
