package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemaDir == "" {
		return fmt.Errorf("schema_dir is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if err := checkOutDir(c.SchemaDir, c.OutDir); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.OutputFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.SchemaDir); os.IsNotExist(err) {
		return fmt.Errorf("schema directory does not exist: %s\nHint: Create the directory or use --schema-dir to specify a different path", c.SchemaDir)
	}
	return nil
}

// Level returns the slog level for the configuration. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// checkOutDir rejects an output directory inside the schema directory: its
// files would be read back as schema sources and wrapped a second time.
func checkOutDir(schemaDir, outDir string) error {
	schema, err := filepath.Abs(schemaDir)
	if err != nil {
		return fmt.Errorf("invalid schema_dir: %w", err)
	}
	out, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("invalid out_dir: %w", err)
	}
	rel, err := filepath.Rel(schema, out)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("out_dir %s must not be inside schema_dir %s", outDir, schemaDir)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
