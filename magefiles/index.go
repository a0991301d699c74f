//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Index builds the CLI, stores the data/ catalog in index/catalog.db and
// refreshes index/export.yaml.
func Index() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "index", "store", "--corpus", "data", "--index-dir", "index"); err != nil {
		return err
	}
	return sh.RunV(bin, "index", "export", "--index-dir", "index")
}
