// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Output file names written by Save.
const (
	YAMLFile   = "catalog.yaml"
	JSONFile   = "catalog.json"
	ReportFile = "report.txt"
)

// WriteYAML writes the catalog export to w as YAML.
func WriteYAML(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Export()); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the catalog export to w as indented JSON.
func WriteJSON(w io.Writer, c *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Export()); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Save writes the catalog into dir in the given format ("yaml", "json" or
// "both", default "yaml") together with the text report. It returns the
// paths written.
func Save(c *Catalog, dir, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	type target struct {
		name  string
		write func(io.Writer, *Catalog) error
	}
	var targets []target
	switch format {
	case "", "yaml":
		targets = append(targets, target{YAMLFile, WriteYAML})
	case "json":
		targets = append(targets, target{JSONFile, WriteJSON})
	case "both":
		targets = append(targets, target{YAMLFile, WriteYAML}, target{JSONFile, WriteJSON})
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	targets = append(targets, target{ReportFile, WriteReport})

	var written []string
	for _, t := range targets {
		path := filepath.Join(dir, t.name)
		if err := writeFile(path, c, t.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, c *Catalog, write func(io.Writer, *Catalog) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, c); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
