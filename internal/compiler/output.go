package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HashStore remembers the content hash of every written output so unchanged
// files are not rewritten.
type HashStore interface {
	OutputHash(ctx context.Context, path string) (string, error)
	SetOutputHash(ctx context.Context, path, hash string) error
}

// WriteResult counts what WriteOutputs did.
type WriteResult struct {
	Written int
	Skipped int
}

// WriteOutputs mirrors outputs under outDir. With a non-nil store, outputs whose
// hash matches the stored one and whose file still exists are skipped.
func WriteOutputs(ctx context.Context, outDir string, outputs []*Output, store HashStore) (*WriteResult, error) {
	result := &WriteResult{}
	for _, o := range outputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		target := filepath.Join(outDir, outputPath(o.Path))
		hash := computeHash(o.Source)

		if store != nil {
			prev, err := store.OutputHash(ctx, target)
			if err != nil {
				return result, err
			}
			if prev == hash && fileExists(target) {
				result.Skipped++
				continue
			}
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return result, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(target, o.Source, 0o600); err != nil {
			return result, fmt.Errorf("failed to write output: %w", err)
		}
		if store != nil {
			if err := store.SetOutputHash(ctx, target, hash); err != nil {
				return result, err
			}
		}
		result.Written++
	}
	return result, nil
}

// outputPath keeps outputs inside the output directory: absolute paths and
// paths escaping upwards collapse to their base name.
func outputPath(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
		return filepath.Base(p)
	}
	return p
}

func computeHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
