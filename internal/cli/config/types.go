// Package config provides configuration management for the leapcube CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	SchemaDir    string   `koanf:"schema_dir"`
	OutDir       string   `koanf:"out_dir"`
	Symbols      []string `koanf:"symbols"` // symbol manifest files
	Concurrency  int      `koanf:"concurrency"`
	StatePath    string   `koanf:"state_path"`
	NoState      bool     `koanf:"no_state"`
	Verbose      bool     `koanf:"verbose"`
	LogLevel     string   `koanf:"log_level"`
	OutputFormat string   `koanf:"output"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSchemaDir   = "schema"
	DefaultOutDir      = "dist"
	DefaultStateFile   = ".leapcube/state.db"
	DefaultConcurrency = 4
	DefaultLogLevel    = "info"
	DefaultOutput      = "text"
)

// Config file names searched for, in order.
var configFileNames = []string{"leapcube.yaml", "leapcube.yml"}
