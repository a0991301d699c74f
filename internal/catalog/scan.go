// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/course-extractor/pkg/types"
)

const defaultWorkers = 4

// Scanner extracts the exercises and metadata of one document.
// *extract.Scanner satisfies it.
type Scanner interface {
	Scan(path, text string) ([]types.ExerciseRecord, types.DocumentMetadata)
}

// ScanOptions configures ScanAll.
type ScanOptions struct {
	// Workers bounds concurrent scans. Zero uses 4.
	Workers int

	// Duplicates is the duplicate-identifier policy. Empty means KeepLast.
	Duplicates types.DuplicatePolicy

	// Logger receives duplicate diagnostics. Nil discards them.
	Logger *zap.Logger

	// Progress receives one line per document. Nil discards them.
	Progress io.Writer
}

type scanResult struct {
	records []types.ExerciseRecord
	meta    types.DocumentMetadata
}

// ScanAll scans every document in docs (path to text) and aggregates the
// results. Documents are scanned concurrently but merged in lexical path
// order, so the catalog, including which duplicate survives, does not depend
// on scheduling. ScanAll fails only when ctx is cancelled.
func ScanAll(ctx context.Context, s Scanner, docs map[string]string, opts ScanOptions) (*Catalog, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	w := opts.Progress
	if w == nil {
		w = io.Discard
	}

	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	results := make([]scanResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, meta := s.Scan(p, docs[p])
			results[i] = scanResult{records: records, meta: meta}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}

	b := NewBuilder(opts.Duplicates, opts.Logger)
	for i, r := range results {
		fmt.Fprintf(w, "scanned %s (%d exercises)\n", paths[i], len(r.records))
		b.Add(r.records, r.meta)
	}
	cat := b.Build()

	sum := cat.Summary()
	fmt.Fprintf(w, "\ndocuments: %d, exercises: %d, unique: %d, replaced: %d, skipped: %d\n",
		sum.DocumentsScanned, sum.ExercisesFound, sum.UniqueExercises,
		sum.DuplicatesReplaced, sum.DuplicatesSkipped)

	return cat, nil
}
