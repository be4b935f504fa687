package compiler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "users.js"), usersSchema)
	writeFile(t, filepath.Join(dir, "sales", "orders.js"), ordersSchema)
	writeFile(t, filepath.Join(dir, ".cache", "stale.js"), "cube('Stale', {})")
	writeFile(t, filepath.Join(dir, "node_modules", "dep", "index.js"), "module")
	writeFile(t, filepath.Join(dir, "README.md"), "# schema")

	files, err := New(Config{}).LoadDir(dir)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"sales/orders.js", "users.js"}, paths)
	assert.Equal(t, usersSchema, string(files[1].Source))
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := New(Config{}).LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema directory")
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	writeFile(t, a, "cube('A', {})")

	files, err := New(Config{}).LoadFiles([]string{a})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "cube('A', {})", string(files[0].Source))

	_, err = New(Config{}).LoadFiles([]string{filepath.Join(dir, "b.js")})
	assert.Error(t, err)
}

type memHashStore struct {
	mu     sync.Mutex
	hashes map[string]string
}

func (s *memHashStore) OutputHash(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hashes[path], nil
}

func (s *memHashStore) SetOutputHash(_ context.Context, path, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[path] = hash
	return nil
}

func TestWriteOutputs(t *testing.T) {
	out := t.TempDir()
	outputs := []*Output{
		{Path: "users.js", Source: []byte(usersCompiled)},
		{Path: "sales/orders.js", Source: []byte(ordersCompiled)},
	}
	store := &memHashStore{hashes: map[string]string{}}
	ctx := context.Background()

	res, err := WriteOutputs(ctx, out, outputs, store)
	require.NoError(t, err)
	assert.Equal(t, &WriteResult{Written: 2}, res)

	got, err := os.ReadFile(filepath.Join(out, "sales", "orders.js"))
	require.NoError(t, err)
	assert.Equal(t, ordersCompiled, string(got))

	res, err = WriteOutputs(ctx, out, outputs, store)
	require.NoError(t, err)
	assert.Equal(t, &WriteResult{Skipped: 2}, res)

	// A deleted output is rewritten even though its hash is known.
	require.NoError(t, os.Remove(filepath.Join(out, "users.js")))
	outputs[1].Source = []byte("changed\n")
	res, err = WriteOutputs(ctx, out, outputs, store)
	require.NoError(t, err)
	assert.Equal(t, &WriteResult{Written: 2}, res)
}

func TestWriteOutputs_WithoutStore(t *testing.T) {
	out := t.TempDir()
	outputs := []*Output{{Path: "a.js", Source: []byte("a;\n")}}

	for i := 0; i < 2; i++ {
		res, err := WriteOutputs(context.Background(), out, outputs, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Written)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("sales", "orders.js"), outputPath("sales/orders.js"))
	assert.Equal(t, "orders.js", outputPath("../orders.js"))
	assert.Equal(t, "orders.js", outputPath("/abs/schema/orders.js"))
}
