// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Difficulty grades an exercise by how far into the course it appears.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Origin records which locator produced an ExerciseRecord.
type Origin string

const (
	// OriginContainer marks records built from a well-formed exercise container.
	OriginContainer Origin = "container"

	// OriginContext marks lower-confidence records rebuilt from a window of
	// lines around a bare identifier reference.
	OriginContext Origin = "context"
)

// ExerciseRecord is one programming exercise recovered from a course document.
// Records are never mutated after the scanner creates them.
type ExerciseRecord struct {
	// ID is the exercise identifier (the tmcname), unique across the catalog.
	ID string `json:"id" yaml:"id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Requirements holds bullet and numbered list items, capped by
	// ExtractionConfig.RequirementsCap.
	Requirements []string `json:"requirements" yaml:"requirements"`

	Hints       []string `json:"hints" yaml:"hints"`
	Examples    []string `json:"examples" yaml:"examples"`
	StarterCode string   `json:"starter_code" yaml:"starter_code"`
	TestCases   []string `json:"test_cases" yaml:"test_cases"`

	// Points is the exercise's point value. Always at least 1.
	Points int `json:"points" yaml:"points"`

	// Difficulty is derived from the part number embedded in ID.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// PartNumber is parsed from the source document path (part-N). It is the
	// canonical part used for ordering.
	PartNumber int `json:"part_number" yaml:"part_number"`

	// IdentifierPart is the part number embedded in ID (partN), or 0 when ID
	// carries none. It may disagree with PartNumber.
	IdentifierPart int `json:"identifier_part" yaml:"identifier_part"`

	// ExerciseNumber is the sequence number from an ID like part3-12.
	ExerciseNumber int `json:"exercise_number" yaml:"exercise_number"`

	Tags []string `json:"tags" yaml:"tags"`

	Origin Origin `json:"origin" yaml:"origin"`

	// SourceFile is the path of the document the record came from.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// RawContent is the trimmed block text the fields were extracted from.
	RawContent string `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`
}

// Header is a markdown heading line found in a document.
type Header struct {
	Level int    `json:"level" yaml:"level"`
	Title string `json:"title" yaml:"title"`
}

// DocumentMetadata holds document-level information that does not belong to
// any single exercise.
type DocumentMetadata struct {
	Path string `json:"path" yaml:"path"`

	// Title comes from the document's YAML frontmatter, if any.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	PartNumber  int      `json:"part_number" yaml:"part_number"`
	Headers     []Header `json:"headers" yaml:"headers"`
	Objectives  []string `json:"learning_objectives" yaml:"learning_objectives"`
	ExerciseIDs []string `json:"exercise_ids" yaml:"exercise_ids"`
}

// FieldCounts counts how many catalog exercises carry each optional field.
type FieldCounts struct {
	Description  int `json:"description" yaml:"description"`
	Requirements int `json:"requirements" yaml:"requirements"`
	Hints        int `json:"hints" yaml:"hints"`
	Examples     int `json:"examples" yaml:"examples"`
	StarterCode  int `json:"starter_code" yaml:"starter_code"`
	TestCases    int `json:"test_cases" yaml:"test_cases"`
}

// CatalogSummary holds run-level counters for a built catalog.
type CatalogSummary struct {
	DocumentsScanned int `json:"documents_scanned" yaml:"documents_scanned"`

	// ExercisesFound counts every record the scanner emitted, before
	// duplicate identifiers were merged.
	ExercisesFound int `json:"exercises_found" yaml:"exercises_found"`

	UniqueExercises    int `json:"unique_exercises" yaml:"unique_exercises"`
	DuplicatesReplaced int `json:"duplicates_replaced" yaml:"duplicates_replaced"`
	DuplicatesSkipped  int `json:"duplicates_skipped" yaml:"duplicates_skipped"`
	FallbackRecords    int `json:"fallback_records" yaml:"fallback_records"`

	Fields       FieldCounts        `json:"fields_present" yaml:"fields_present"`
	ByPart       map[int]int        `json:"by_part" yaml:"by_part"`
	ByDifficulty map[Difficulty]int `json:"by_difficulty" yaml:"by_difficulty"`

	// DocumentsByPart and ObjectivesByPart count scanned documents and their
	// learning objectives per path part number.
	DocumentsByPart  map[int]int `json:"documents_by_part" yaml:"documents_by_part"`
	ObjectivesByPart map[int]int `json:"objectives_by_part" yaml:"objectives_by_part"`
}

// CatalogExport is the serializable form of a catalog.
type CatalogExport struct {
	Summary   CatalogSummary     `json:"summary" yaml:"summary"`
	Exercises []ExerciseRecord   `json:"exercises" yaml:"exercises"`
	Documents []DocumentMetadata `json:"documents" yaml:"documents"`
}
