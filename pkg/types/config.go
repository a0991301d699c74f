package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ExtractionConfig holds the tunable limits of the extraction rules. The
// defaults reproduce the behavior the course corpus was written against.
type ExtractionConfig struct {
	// Marker is the container element name (e.g. "programming-exercise").
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker"`

	// IdentifierAttr is the container attribute carrying the exercise ID.
	IdentifierAttr string `json:"identifier_attr" yaml:"identifier_attr" mapstructure:"identifier_attr"`

	// ContextRadius is the number of lines kept above and below a bare
	// identifier reference (default 10).
	ContextRadius int `json:"context_radius" yaml:"context_radius" mapstructure:"context_radius"`

	// TitleMaxLength rejects title candidates of this many characters or more (default 100).
	TitleMaxLength int `json:"title_max_length" yaml:"title_max_length" mapstructure:"title_max_length"`

	// DescriptionLimit truncates descriptions longer than this (default 500).
	DescriptionLimit int `json:"description_limit" yaml:"description_limit" mapstructure:"description_limit"`

	// RequirementsCap bounds the number of requirements kept (default 10).
	RequirementsCap int `json:"requirements_cap" yaml:"requirements_cap" mapstructure:"requirements_cap"`

	// MinRequirementLength drops list items of this many characters or fewer (default 10).
	MinRequirementLength int `json:"min_requirement_length" yaml:"min_requirement_length" mapstructure:"min_requirement_length"`

	// MinObjectiveLength drops objective lines of this many characters or fewer (default 10).
	MinObjectiveLength int `json:"min_objective_length" yaml:"min_objective_length" mapstructure:"min_objective_length"`

	// KeepRawContent stores the block text on each record.
	KeepRawContent bool `json:"keep_raw_content" yaml:"keep_raw_content" mapstructure:"keep_raw_content"`

	// ExtraTags are appended to every record's tags (e.g. "mooc").
	ExtraTags []string `json:"extra_tags,omitempty" yaml:"extra_tags,omitempty" mapstructure:"extra_tags"`
}

// DefaultExtractionConfig returns the stock limits.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		Marker:               "programming-exercise",
		IdentifierAttr:       "tmcname",
		ContextRadius:        10,
		TitleMaxLength:       100,
		DescriptionLimit:     500,
		RequirementsCap:      10,
		MinRequirementLength: 10,
		MinObjectiveLength:   10,
	}
}

// Validate checks the extraction limits.
func (c ExtractionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Marker, validation.Required),
		validation.Field(&c.IdentifierAttr, validation.Required),
		validation.Field(&c.ContextRadius, validation.Min(0)),
		validation.Field(&c.TitleMaxLength, validation.Required, validation.Min(1)),
		validation.Field(&c.DescriptionLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.RequirementsCap, validation.Min(0)),
		validation.Field(&c.MinRequirementLength, validation.Min(0)),
		validation.Field(&c.MinObjectiveLength, validation.Min(0)),
	)
}

// DuplicatePolicy selects which record survives when an identifier repeats.
type DuplicatePolicy string

const (
	KeepLast  DuplicatePolicy = "last"
	KeepFirst DuplicatePolicy = "first"
)

// CatalogConfig holds settings for a catalog build run.
type CatalogConfig struct {
	// CorpusDir is the root directory of course documents.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir" mapstructure:"corpus_dir"`

	// Extensions lists the file extensions read from CorpusDir.
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`

	// OutputDir receives catalog.yaml / catalog.json and report.txt.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Format is "yaml", "json" or "both".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Workers bounds the number of documents scanned in parallel (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Duplicates picks the duplicate-identifier policy (default "last").
	Duplicates DuplicatePolicy `json:"duplicates" yaml:"duplicates" mapstructure:"duplicates"`
}

// Validate checks the catalog settings.
func (c CatalogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CorpusDir, validation.Required),
		validation.Field(&c.Format, validation.In("yaml", "json", "both")),
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.Duplicates, validation.In(KeepLast, KeepFirst)),
	)
}

// IndexConfig holds settings for the SQLite catalog index.
type IndexConfig struct {
	// IndexDir contains catalog.db and export files.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Validate checks the index settings.
func (c IndexConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.IndexDir, validation.Required),
		validation.Field(&c.MaxResults, validation.Min(0)),
	)
}
