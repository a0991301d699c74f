// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/course-extractor/internal/extract"
	"github.com/pdiddy/course-extractor/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string matched against title and
	// description.
	Query string

	// Difficulty filters by difficulty.
	Difficulty types.Difficulty

	// Part filters by part number. Zero means any part.
	Part int

	// SourceFile filters by originating document path.
	SourceFile string

	// Tags filters by one or more tags with AND semantics.
	Tags []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Difficulty == "" && q.Part == 0 && q.SourceFile == "" && len(q.Tags) == 0
}

// QueryResult is an exercise with the title of its source document.
type QueryResult struct {
	types.ExerciseRecord `yaml:",inline"`
	DocumentTitle        string `json:"document_title,omitempty" yaml:"document_title,omitempty"`
}

// Retrieve queries the index with optional full-text search and structured
// filters. Full-text results are ranked by relevance; filter-only results
// are ordered by part, exercise number and identifier.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	const columns = `e.id, e.title, e.description, e.requirements, e.hints, e.examples,
		e.starter_code, e.test_cases, e.points, e.difficulty, e.part_number,
		e.identifier_part, e.exercise_number, e.tags, e.origin, e.source_file,
		e.raw_content, d.title`

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(`SELECT ` + columns + `
			FROM exercises_fts
			JOIN exercises e ON e.rowid = exercises_fts.rowid
			LEFT JOIN documents d ON e.source_file = d.path
			WHERE exercises_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + columns + `
			FROM exercises e
			LEFT JOIN documents d ON e.source_file = d.path
			WHERE 1=1`)
	}

	if opts.Difficulty != "" {
		qb.WriteString(` AND e.difficulty = ?`)
		args = append(args, string(opts.Difficulty))
	}
	if opts.Part > 0 {
		qb.WriteString(` AND e.part_number = ?`)
		args = append(args, opts.Part)
	}
	if opts.SourceFile != "" {
		qb.WriteString(` AND e.source_file = ?`)
		args = append(args, opts.SourceFile)
	}
	for _, tag := range opts.Tags {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(e.tags) WHERE value = ?)`)
		args = append(args, tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY exercises_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.part_number, e.exercise_number, e.id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr                                   QueryResult
			reqJSON, hintJSON, exJSON, testsJSON sql.NullString
			tagsJSON, starter, raw, docTitle     sql.NullString
			difficulty, origin                   string
		)
		if err := rows.Scan(
			&qr.ID, &qr.Title, &qr.Description, &reqJSON, &hintJSON, &exJSON,
			&starter, &testsJSON, &qr.Points, &difficulty, &qr.PartNumber,
			&qr.IdentifierPart, &qr.ExerciseNumber, &tagsJSON, &origin, &qr.SourceFile,
			&raw, &docTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Difficulty = types.Difficulty(difficulty)
		qr.Origin = types.Origin(origin)
		qr.StarterCode = starter.String
		qr.RawContent = raw.String
		qr.DocumentTitle = docTitle.String
		qr.Requirements = decodeList(reqJSON)
		qr.Hints = decodeList(hintJSON)
		qr.Examples = decodeList(exJSON)
		qr.TestCases = decodeList(testsJSON)
		qr.Tags = decodeList(tagsJSON)

		results = append(results, qr)
	}

	return results, rows.Err()
}

func decodeList(v sql.NullString) []string {
	out := []string{}
	if v.Valid {
		json.Unmarshal([]byte(v.String), &out)
	}
	return out
}

// Trace returns the block of source text an exercise was extracted from. It
// uses the stored raw content when present; otherwise it re-reads the source
// document under corpusDir and locates the exercise with loc.
func (s *Store) Trace(ctx context.Context, id string, loc *extract.Locator, corpusDir string) (string, error) {
	var sourceFile string
	var raw sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT source_file, raw_content FROM exercises WHERE id = ?`, id,
	).Scan(&sourceFile, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("exercise %s not found", id)
		}
		return "", fmt.Errorf("looking up exercise: %w", err)
	}
	if raw.String != "" {
		return raw.String, nil
	}

	path := filepath.Join(corpusDir, filepath.FromSlash(sourceFile))
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	for _, b := range loc.Containers(text) {
		if b.ID == id {
			return strings.TrimSpace(b.Body), nil
		}
	}
	for _, b := range loc.Fallbacks(text, nil) {
		if b.ID == id {
			return strings.TrimSpace(b.Body), nil
		}
	}
	return "", fmt.Errorf("exercise %s no longer appears in %s", id, sourceFile)
}
