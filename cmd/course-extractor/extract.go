// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/course-extractor/internal/catalog"
	"github.com/pdiddy/course-extractor/internal/corpus"
	"github.com/pdiddy/course-extractor/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract exercises from a course corpus into a catalog file",
	Long: `Extract walks the corpus directory, scans every markdown and HTML page
for programming exercises, and writes the merged catalog to the output
directory as catalog.yaml and/or catalog.json together with report.txt.

Exercises are found inside container elements (<programming-exercise
tmcname="...">) and, for identifiers mentioned without a container, in the
lines surrounding the mention. When the same identifier appears more than
once the last document in path order wins unless --duplicates=first.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindScanFlags(cmd); err != nil {
		return err
	}
	if err := bindFlags(cmd, map[string]string{
		keyOutputDir: "output",
		keyFormat:    "format",
	}); err != nil {
		return err
	}

	cat, err := scanCorpus(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	cfg, err := catalogConfig()
	if err != nil {
		return err
	}
	written, err := catalog.Save(cat, cfg.OutputDir, cfg.Format)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Printf("wrote %s\n", p)
	}
	return nil
}

// scanCorpus loads the configured corpus and builds its catalog, writing
// per-document progress to w.
func scanCorpus(ctx context.Context, w io.Writer) (*catalog.Catalog, error) {
	cfg, err := catalogConfig()
	if err != nil {
		return nil, err
	}
	scanner, err := extract.NewScanner(extractionConfig())
	if err != nil {
		return nil, err
	}

	docs, err := corpus.Load(ctx, cfg.CorpusDir, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", cfg.CorpusDir)
	}
	logger.Debug("corpus loaded", zap.String("root", cfg.CorpusDir), zap.Int("documents", len(docs)))

	return catalog.ScanAll(ctx, scanner, docs, catalog.ScanOptions{
		Workers:    cfg.Workers,
		Duplicates: cfg.Duplicates,
		Logger:     logger,
		Progress:   w,
	})
}

func init() {
	addScanFlags(extractCmd)
	extractCmd.Flags().String("output", "output", "directory for catalog and report files")
	extractCmd.Flags().String("format", "yaml", "catalog format: yaml, json or both")

	rootCmd.AddCommand(extractCmd)
}
