package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool `toml:"useConsoleWriter"`
}

// LogFile implements a rolling file based logger, one file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	ErrorLog        string `toml:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"`

	InfoLog        string `toml:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"`

	TraceLog        string `toml:"trace"`
	TraceMaxSize    int    `toml:"traceMaxSize"`
	TraceMaxBackups int    `toml:"traceMaxBackups"`
	TraceMaxAge     int    `toml:"traceMaxAge"`

	WarnLog        string `toml:"warn"`
	WarnMaxSize    int    `toml:"warnMaxSize"`
	WarnMaxBackups int    `toml:"warnMaxBackups"`
	WarnMaxAge     int    `toml:"warnMaxAge"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `toml:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `toml:"logEnv"`

	// Verbose forces debug level unless a lower level is configured.
	Verbose      bool `toml:"verbose"`
	ReportCaller bool `toml:"reportCaller"`

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	// Console used for interactive runs.
	Console Console `toml:"console"`

	// File rolling log files.
	File LogFile `toml:"file"`
}
