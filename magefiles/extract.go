//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and writes the catalog for data/ into output/.
func Extract() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "extract", "--corpus", "data", "--output", "output", "--format", "both")
}

// Report builds the CLI and prints the catalog summary for data/.
func Report() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "report", "--corpus", "data")
}
