package config

// DB engines understood by GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras      string `toml:"extras"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	User        string `toml:"user"`
	Password    string `toml:"password"`
	Name        string `toml:"name"` // database name, or file path for sqlite
	GormEngine  string `toml:"gormEngine"`
	AutoMigrate bool   `toml:"autoMigrate"` // create missing tables and columns
	Debug       bool   `toml:"debug"`       // log every SQL statement
}
