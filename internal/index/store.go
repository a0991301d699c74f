// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists a built catalog in SQLite and serves full-text and
// filtered queries over its exercises.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/course-extractor/internal/catalog"
	"github.com/pdiddy/course-extractor/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultMaxResults = 20
)

// Store manages the catalog index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the index database at cfg.IndexDir/catalog.db and
// creates the schema if it does not exist.
func Open(cfg types.IndexConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index config: %w", err)
	}
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.IndexDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			title TEXT,
			part_number INTEGER,
			headers TEXT,
			objectives TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			requirements TEXT,
			hints TEXT,
			examples TEXT,
			starter_code TEXT,
			test_cases TEXT,
			points INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			part_number INTEGER NOT NULL,
			identifier_part INTEGER NOT NULL,
			exercise_number INTEGER NOT NULL,
			tags TEXT,
			origin TEXT NOT NULL,
			source_file TEXT NOT NULL REFERENCES documents(path),
			raw_content TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_source ON exercises(source_file)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_order ON exercises(part_number, exercise_number, id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			path TEXT PRIMARY KEY,
			checksum TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 over title and description, kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='exercises_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE exercises_fts USING fts5(title, description, content=exercises, content_rowid=rowid)`,
		`CREATE TRIGGER exercises_ai AFTER INSERT ON exercises BEGIN
			INSERT INTO exercises_fts(rowid, title, description) VALUES (new.rowid, new.title, new.description);
		END`,
		`CREATE TRIGGER exercises_ad AFTER DELETE ON exercises BEGIN
			INSERT INTO exercises_fts(exercises_fts, rowid, title, description) VALUES('delete', old.rowid, old.title, old.description);
		END`,
		`CREATE TRIGGER exercises_au AFTER UPDATE ON exercises BEGIN
			INSERT INTO exercises_fts(exercises_fts, rowid, title, description) VALUES('delete', old.rowid, old.title, old.description);
			INSERT INTO exercises_fts(rowid, title, description) VALUES (new.rowid, new.title, new.description);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// StoreSummary holds counts from one Store run, per document.
type StoreSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s StoreSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed to store.
func (s StoreSummary) HasFailures() bool {
	return s.Failed > 0
}

// Store writes every document of cat and the exercises it contributed to the
// index. A document whose content is unchanged since the last run is
// skipped; a changed document has its previous exercises replaced. An
// exercise identifier moved to a different document is removed from the old
// one. Per-document failures are counted and reported on w; the returned
// error is reserved for cancellation.
func (s *Store) Store(ctx context.Context, cat *catalog.Catalog, w io.Writer) (StoreSummary, error) {
	byDoc := make(map[string][]types.ExerciseRecord)
	for _, r := range cat.Exercises() {
		byDoc[r.SourceFile] = append(byDoc[r.SourceFile], r)
	}

	var summary StoreSummary
	for _, doc := range cat.Documents() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		exercises := byDoc[doc.Path]
		sum, err := checksum(doc, exercises)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Path, err)
			summary.Failed++
			continue
		}

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT checksum FROM indexing_status WHERE path = ?`, doc.Path,
		).Scan(&stored)
		if err == nil && stored == sum {
			fmt.Fprintf(w, "skipped %s\n", doc.Path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.storeDocument(ctx, doc, exercises, sum); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Path, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d exercises)\n", doc.Path, len(exercises))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d exercises)\n", doc.Path, len(exercises))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) storeDocument(ctx context.Context, doc types.DocumentMetadata, exercises []types.ExerciseRecord, sum string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	headersJSON, _ := json.Marshal(doc.Headers)
	objectivesJSON, _ := json.Marshal(doc.Objectives)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, title, part_number, headers, objectives)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			title=excluded.title, part_number=excluded.part_number,
			headers=excluded.headers, objectives=excluded.objectives`,
		doc.Path, doc.Title, doc.PartNumber, string(headersJSON), string(objectivesJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE source_file = ?`, doc.Path); err != nil {
		return fmt.Errorf("deleting old exercises: %w", err)
	}

	del, err := tx.PrepareContext(ctx, `DELETE FROM exercises WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx,
		`INSERT INTO exercises (id, title, description, requirements, hints, examples,
			starter_code, test_cases, points, difficulty, part_number, identifier_part,
			exercise_number, tags, origin, source_file, raw_content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer ins.Close()

	for _, r := range exercises {
		// The identifier may still be held by the document it was seen in before.
		if _, err := del.ExecContext(ctx, r.ID); err != nil {
			return fmt.Errorf("deleting exercise %s: %w", r.ID, err)
		}
		_, err := ins.ExecContext(ctx,
			r.ID, r.Title, r.Description,
			jsonList(r.Requirements), jsonList(r.Hints), jsonList(r.Examples),
			r.StarterCode, jsonList(r.TestCases), r.Points, string(r.Difficulty),
			r.PartNumber, r.IdentifierPart, r.ExerciseNumber,
			jsonList(r.Tags), string(r.Origin), r.SourceFile, r.RawContent,
		)
		if err != nil {
			return fmt.Errorf("inserting exercise %s: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (path, checksum) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET checksum=excluded.checksum`,
		doc.Path, sum,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// checksum fingerprints a document and its exercises so unchanged documents
// can be skipped.
func checksum(doc types.DocumentMetadata, exercises []types.ExerciseRecord) (string, error) {
	data, err := json.Marshal(struct {
		Doc       types.DocumentMetadata
		Exercises []types.ExerciseRecord
	}{doc, exercises})
	if err != nil {
		return "", fmt.Errorf("fingerprinting document: %w", err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

func jsonList(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}
