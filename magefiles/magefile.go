//go:build mage

// Package main contains Mage build targets for course-extractor developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI reads from and writes to.
var projectDirs = []string{
	"data",
	"output",
	"index",
}

const (
	binDir  = "bin"
	binName = "course-extractor"
	cmdPkg  = "./cmd/course-extractor"

	// sqliteTags enables FTS5 in mattn/go-sqlite3.
	sqliteTags = "sqlite_fts5"
)

// Init creates the corpus, output and index directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-tags", sqliteTags, "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-tags", sqliteTags, "./...")
}

// Vet runs go vet with the same build tags as Build.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", sqliteTags, "./...")
}

// Check runs Vet and Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Stats prints non-blank Go line counts per package, split into production
// and test code.
func Stats() error {
	prod := make(map[string]int)
	test := make(map[string]int)

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		pkg := filepath.Dir(path)
		if strings.HasSuffix(path, "_test.go") {
			test[pkg] += n
		} else {
			prod[pkg] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(prod))
	for p := range prod {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)

	var totalProd, totalTest int
	fmt.Printf("%-32s %8s %8s\n", "package", "prod", "test")
	for _, p := range pkgs {
		fmt.Printf("%-32s %8d %8d\n", p, prod[p], test[p])
		totalProd += prod[p]
		totalTest += test[p]
	}
	fmt.Printf("%-32s %8d %8d\n", "total", totalProd, totalTest)
	return nil
}

// countLines returns the number of non-blank lines in the file at path.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	s := bufio.NewScanner(f)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) != "" {
			n++
		}
	}
	return n, s.Err()
}
