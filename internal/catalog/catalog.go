// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog merges per-document scan results into a single catalog
// keyed by exercise identifier and writes it out as YAML, JSON or a text
// report.
package catalog

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/course-extractor/internal/extract"
	"github.com/pdiddy/course-extractor/pkg/types"
)

// Builder accumulates exercise records and document metadata. Add may be
// called from several goroutines; records with a repeated identifier are
// resolved by the builder's DuplicatePolicy.
type Builder struct {
	mu      sync.Mutex
	policy  types.DuplicatePolicy
	log     *zap.Logger
	records map[string]types.ExerciseRecord
	docs    map[string]types.DocumentMetadata
	found   int
	replace int
	skip    int
}

// NewBuilder returns an empty Builder. An empty policy means KeepLast and a
// nil logger discards diagnostics.
func NewBuilder(policy types.DuplicatePolicy, log *zap.Logger) *Builder {
	if policy == "" {
		policy = types.KeepLast
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		policy:  policy,
		log:     log,
		records: make(map[string]types.ExerciseRecord),
		docs:    make(map[string]types.DocumentMetadata),
	}
}

// Add merges one document's scan result into the builder.
func (b *Builder) Add(records []types.ExerciseRecord, meta types.DocumentMetadata) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[meta.Path] = meta
	for _, r := range records {
		b.found++
		prev, dup := b.records[r.ID]
		if !dup {
			b.records[r.ID] = r
			continue
		}
		if b.policy == types.KeepFirst {
			b.skip++
			b.log.Info("duplicate exercise identifier skipped",
				zap.String("id", r.ID),
				zap.String("kept", prev.SourceFile),
				zap.String("skipped", r.SourceFile))
			continue
		}
		b.replace++
		b.records[r.ID] = r
		b.log.Info("duplicate exercise identifier replaced",
			zap.String("id", r.ID),
			zap.String("previous", prev.SourceFile),
			zap.String("current", r.SourceFile))
	}
}

// Build freezes the accumulated state into a Catalog. The builder may keep
// receiving records afterwards; the returned Catalog does not change.
func (b *Builder) Build() *Catalog {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &Catalog{
		byID:      make(map[string]types.ExerciseRecord, len(b.records)),
		exercises: make([]types.ExerciseRecord, 0, len(b.records)),
		documents: make([]types.DocumentMetadata, 0, len(b.docs)),
	}
	for id, r := range b.records {
		r = cloneRecord(r)
		c.byID[id] = r
		c.exercises = append(c.exercises, r)
	}
	for _, d := range b.docs {
		c.documents = append(c.documents, cloneDocument(d))
	}

	slices.SortFunc(c.exercises, compareExercises)
	slices.SortFunc(c.documents, func(a, b types.DocumentMetadata) int {
		return cmp.Compare(a.Path, b.Path)
	})

	c.summary = summarize(c.exercises, c.documents)
	c.summary.ExercisesFound = b.found
	c.summary.DuplicatesReplaced = b.replace
	c.summary.DuplicatesSkipped = b.skip
	return c
}

func compareExercises(a, b types.ExerciseRecord) int {
	return cmp.Or(
		cmp.Compare(a.PartNumber, b.PartNumber),
		cmp.Compare(a.ExerciseNumber, b.ExerciseNumber),
		cmp.Compare(a.ID, b.ID),
	)
}

// cloneRecord copies r including its list fields.
func cloneRecord(r types.ExerciseRecord) types.ExerciseRecord {
	r.Requirements = slices.Clone(r.Requirements)
	r.Hints = slices.Clone(r.Hints)
	r.Examples = slices.Clone(r.Examples)
	r.TestCases = slices.Clone(r.TestCases)
	r.Tags = slices.Clone(r.Tags)
	return r
}

func cloneDocument(d types.DocumentMetadata) types.DocumentMetadata {
	d.Headers = slices.Clone(d.Headers)
	d.Objectives = slices.Clone(d.Objectives)
	d.ExerciseIDs = slices.Clone(d.ExerciseIDs)
	return d
}

func summarize(exercises []types.ExerciseRecord, docs []types.DocumentMetadata) types.CatalogSummary {
	s := types.CatalogSummary{
		DocumentsScanned: len(docs),
		UniqueExercises:  len(exercises),
		ByPart:           make(map[int]int),
		ByDifficulty:     make(map[types.Difficulty]int),
		DocumentsByPart:  make(map[int]int),
		ObjectivesByPart: make(map[int]int),
	}
	for _, d := range docs {
		s.DocumentsByPart[d.PartNumber]++
		s.ObjectivesByPart[d.PartNumber] += len(d.Objectives)
	}
	for _, r := range exercises {
		s.ByPart[r.PartNumber]++
		s.ByDifficulty[r.Difficulty]++
		if r.Origin == types.OriginContext {
			s.FallbackRecords++
		}
		if r.Description != "" && r.Description != extract.NoDescription {
			s.Fields.Description++
		}
		if len(r.Requirements) > 0 {
			s.Fields.Requirements++
		}
		if len(r.Hints) > 0 {
			s.Fields.Hints++
		}
		if len(r.Examples) > 0 {
			s.Fields.Examples++
		}
		if r.StarterCode != "" {
			s.Fields.StarterCode++
		}
		if len(r.TestCases) > 0 {
			s.Fields.TestCases++
		}
	}
	return s
}

// Catalog is an immutable set of exercise records with unique identifiers,
// plus the metadata of every scanned document.
type Catalog struct {
	byID      map[string]types.ExerciseRecord
	exercises []types.ExerciseRecord
	documents []types.DocumentMetadata
	summary   types.CatalogSummary
}

// Len returns the number of unique exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// Get returns the record for id.
func (c *Catalog) Get(id string) (types.ExerciseRecord, bool) {
	r, ok := c.byID[id]
	if !ok {
		return r, false
	}
	return cloneRecord(r), true
}

// Exercises returns the records ordered by part, exercise number and identifier.
func (c *Catalog) Exercises() []types.ExerciseRecord {
	out := make([]types.ExerciseRecord, len(c.exercises))
	for i, r := range c.exercises {
		out[i] = cloneRecord(r)
	}
	return out
}

// Documents returns document metadata ordered by path.
func (c *Catalog) Documents() []types.DocumentMetadata {
	out := make([]types.DocumentMetadata, len(c.documents))
	for i, d := range c.documents {
		out[i] = cloneDocument(d)
	}
	return out
}

// Summary returns the run counters.
func (c *Catalog) Summary() types.CatalogSummary {
	s := c.summary
	s.ByPart = maps.Clone(s.ByPart)
	s.ByDifficulty = maps.Clone(s.ByDifficulty)
	s.DocumentsByPart = maps.Clone(s.DocumentsByPart)
	s.ObjectivesByPart = maps.Clone(s.ObjectivesByPart)
	return s
}

// Export returns the serializable form of the catalog.
func (c *Catalog) Export() types.CatalogExport {
	return types.CatalogExport{
		Summary:   c.Summary(),
		Exercises: c.Exercises(),
		Documents: c.Documents(),
	}
}
