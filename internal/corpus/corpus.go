// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads a directory of course documents into memory.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the document types read when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".html"}

const bom = "\ufeff"

// Load walks root and returns the text of every file whose extension is in
// exts (DefaultExtensions when empty), keyed by slash-separated path relative
// to root. Directories whose name starts with a dot are skipped, as are
// entries that cannot be read. Load fails only when root itself cannot be
// walked or ctx is cancelled.
func Load(ctx context.Context, root string, exts []string) (map[string]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make([]string, len(exts))
	for i, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[i] = strings.ToLower(e)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	docs := make(map[string]string)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !slices.Contains(want, strings.ToLower(filepath.Ext(p))) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		docs[filepath.ToSlash(rel)] = strings.TrimPrefix(string(data), bom)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus %s: %w", root, err)
	}
	return docs, nil
}
