// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers programming-exercise records from loosely
// structured course documents.
//
// A Scanner locates exercise containers, falls back to bare identifier
// references for exercises written without one, runs the field rules over
// each block and classifies the result. Scanning is a pure function of the
// document text: it holds no state between calls, is safe for concurrent use
// across documents, and never returns an error.
package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/course-extractor/pkg/types"
)

// Scanner turns one document's text into exercise records and metadata.
type Scanner struct {
	cfg     types.ExtractionConfig
	locator *Locator
}

// NewScanner validates cfg and builds a Scanner.
func NewScanner(cfg types.ExtractionConfig) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}
	return &Scanner{
		cfg:     cfg,
		locator: NewLocator(cfg.Marker, cfg.IdentifierAttr, cfg.ContextRadius),
	}, nil
}

// Config returns the scanner's extraction settings.
func (s *Scanner) Config() types.ExtractionConfig {
	return s.cfg
}

// Scan extracts every exercise in text, which was read from path. Container
// records come first in document order, followed by context-window records
// for identifiers no container captured. Metadata is computed over the whole
// text regardless of what exercises were found.
func (s *Scanner) Scan(path, text string) ([]types.ExerciseRecord, types.DocumentMetadata) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var records []types.ExerciseRecord
	captured := make(map[string]bool)

	for _, b := range s.locator.Containers(text) {
		records = append(records, s.record(b, path, types.OriginContainer))
		captured[b.ID] = true
	}
	for _, b := range s.locator.Fallbacks(text, captured) {
		records = append(records, s.record(b, path, types.OriginContext))
	}

	meta := types.DocumentMetadata{
		Path:        path,
		Title:       parseFrontmatter(text).Title,
		PartNumber:  PartFromPath(path),
		Headers:     Headers(text),
		Objectives:  Objectives(text, s.cfg.MinObjectiveLength),
		ExerciseIDs: make([]string, 0, len(records)),
	}
	for _, r := range records {
		meta.ExerciseIDs = append(meta.ExerciseIDs, r.ID)
	}

	return records, meta
}

func (s *Scanner) record(b Block, path string, origin types.Origin) types.ExerciseRecord {
	f := ExtractFields(b.Body, s.cfg)
	if origin == types.OriginContext {
		f.Title = Humanize(b.ID)
	}
	c := Classify(b.ID, path)

	rec := types.ExerciseRecord{
		ID:             b.ID,
		Title:          f.Title,
		Description:    f.Description,
		Requirements:   f.Requirements,
		Hints:          f.Hints,
		Examples:       f.Examples,
		StarterCode:    f.StarterCode,
		TestCases:      f.TestCases,
		Points:         f.Points,
		Difficulty:     c.Difficulty,
		PartNumber:     c.PartNumber,
		IdentifierPart: c.IdentifierPart,
		ExerciseNumber: c.ExerciseNumber,
		Tags:           s.tags(c),
		Origin:         origin,
		SourceFile:     path,
	}
	if s.cfg.KeepRawContent {
		rec.RawContent = strings.TrimSpace(b.Body)
	}
	return rec
}

// tags returns the configured extra tags followed by the part and difficulty tags.
func (s *Scanner) tags(c Classification) []string {
	tags := make([]string, 0, len(s.cfg.ExtraTags)+2)
	tags = append(tags, s.cfg.ExtraTags...)
	return append(tags, fmt.Sprintf("part-%d", c.PartNumber), string(c.Difficulty))
}
