package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"data/part-1/1-intro.md": "# Intro",
		"data/part-1/2-vars.MDX": "# Vars",
		"data/part-2/index.html": "<h1>Loops</h1>",
		"data/part-2/image.png":  "binary",
		".git/HEAD.md":           "ignored",
		"data/.drafts/secret.md": "ignored",
		"data/part-3/bom.md":     "\ufeff# Bom",
		"gatsby-config.js":       "module.exports = {}",
	})

	docs, err := Load(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"data/part-1/1-intro.md": "# Intro",
		"data/part-1/2-vars.MDX": "# Vars",
		"data/part-2/index.html": "<h1>Loops</h1>",
		"data/part-3/bom.md":     "# Bom",
	}, docs)
}

func TestLoad_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.md":  "a",
		"b.txt": "b",
	})

	docs, err := Load(context.Background(), root, []string{"txt"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"b.txt": "b"}, docs)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	docs, err := Load(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_BadRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		root string
	}{
		{"missing", filepath.Join(root, "nope")},
		{"not a directory", file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.root, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.md": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
