package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaExt is the extension of schema source files.
const SchemaExt = ".js"

// LoadDir reads every schema file below dir, sorted by path. Hidden directories
// and node_modules are skipped.
func (c *Compiler) LoadDir(dir string) ([]File, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("schema directory: %w", err)
	}

	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), SchemaExt) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path) //nolint:gosec // G304: path comes from WalkDir within the schema directory
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Source: src})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	c.logger.Debug("loaded schema files", "dir", dir, "files", len(files))
	return files, nil
}

// LoadFiles reads the given schema files. Paths are kept as given, in order.
func (c *Compiler) LoadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		src, err := os.ReadFile(p) //nolint:gosec // G304: paths are user-supplied CLI arguments
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		files = append(files, File{Path: filepath.ToSlash(filepath.Clean(p)), Source: src})
	}
	return files, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
