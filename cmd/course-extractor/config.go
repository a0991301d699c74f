package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/course-extractor/internal/corpus"
	"github.com/pdiddy/course-extractor/pkg/types"
)

// Configuration keys. Each can be set in course-extractor.yaml, through a
// COURSE_EXTRACTOR_* environment variable (dots become underscores) or by
// the flag bound to it.
const (
	keyMarker         = "extraction.marker"
	keyIdentifierAttr = "extraction.identifier_attr"
	keyContextRadius  = "extraction.context_radius"
	keyTitleMax       = "extraction.title_max_length"
	keyDescLimit      = "extraction.description_limit"
	keyReqCap         = "extraction.requirements_cap"
	keyReqMin         = "extraction.min_requirement_length"
	keyObjMin         = "extraction.min_objective_length"
	keyKeepRaw        = "extraction.keep_raw_content"
	keyExtraTags      = "extraction.extra_tags"

	keyCorpusDir  = "catalog.corpus_dir"
	keyExtensions = "catalog.extensions"
	keyOutputDir  = "catalog.output_dir"
	keyFormat     = "catalog.format"
	keyWorkers    = "catalog.workers"
	keyDuplicates = "catalog.duplicates"

	keyIndexDir   = "index.index_dir"
	keyMaxResults = "index.max_results"
)

func setDefaults() {
	ext := types.DefaultExtractionConfig()
	viper.SetDefault(keyMarker, ext.Marker)
	viper.SetDefault(keyIdentifierAttr, ext.IdentifierAttr)
	viper.SetDefault(keyContextRadius, ext.ContextRadius)
	viper.SetDefault(keyTitleMax, ext.TitleMaxLength)
	viper.SetDefault(keyDescLimit, ext.DescriptionLimit)
	viper.SetDefault(keyReqCap, ext.RequirementsCap)
	viper.SetDefault(keyReqMin, ext.MinRequirementLength)
	viper.SetDefault(keyObjMin, ext.MinObjectiveLength)
	viper.SetDefault(keyKeepRaw, false)
	viper.SetDefault(keyExtraTags, []string{})

	viper.SetDefault(keyCorpusDir, "data")
	viper.SetDefault(keyExtensions, corpus.DefaultExtensions)
	viper.SetDefault(keyOutputDir, "output")
	viper.SetDefault(keyFormat, "yaml")
	viper.SetDefault(keyWorkers, 4)
	viper.SetDefault(keyDuplicates, string(types.KeepLast))

	viper.SetDefault(keyIndexDir, "index")
	viper.SetDefault(keyMaxResults, 20)
}

// bindFlags binds the named flags of cmd to configuration keys. Binding
// happens when a command runs so that subcommands sharing a key each bind
// their own flag.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined on %s", flag, cmd.Name())
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// addScanFlags defines the corpus and extraction flags shared by every
// command that scans documents.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("corpus", "data", "root directory of course documents")
	cmd.Flags().StringSlice("ext", corpus.DefaultExtensions, "document extensions to read")
	cmd.Flags().Int("workers", 4, "documents scanned in parallel")
	cmd.Flags().String("duplicates", "last", "duplicate identifier policy: last or first")
	cmd.Flags().String("marker", "programming-exercise", "exercise container element name")
	cmd.Flags().String("attr", "tmcname", "container attribute holding the exercise identifier")
	cmd.Flags().Bool("keep-raw", false, "store the source block on each record")
	cmd.Flags().StringSlice("tag", nil, "extra tag added to every exercise (repeatable)")
}

func bindScanFlags(cmd *cobra.Command) error {
	return bindFlags(cmd, map[string]string{
		keyCorpusDir:      "corpus",
		keyExtensions:     "ext",
		keyWorkers:        "workers",
		keyDuplicates:     "duplicates",
		keyMarker:         "marker",
		keyIdentifierAttr: "attr",
		keyKeepRaw:        "keep-raw",
		keyExtraTags:      "tag",
	})
}

func extractionConfig() types.ExtractionConfig {
	return types.ExtractionConfig{
		Marker:               viper.GetString(keyMarker),
		IdentifierAttr:       viper.GetString(keyIdentifierAttr),
		ContextRadius:        viper.GetInt(keyContextRadius),
		TitleMaxLength:       viper.GetInt(keyTitleMax),
		DescriptionLimit:     viper.GetInt(keyDescLimit),
		RequirementsCap:      viper.GetInt(keyReqCap),
		MinRequirementLength: viper.GetInt(keyReqMin),
		MinObjectiveLength:   viper.GetInt(keyObjMin),
		KeepRawContent:       viper.GetBool(keyKeepRaw),
		ExtraTags:            viper.GetStringSlice(keyExtraTags),
	}
}

func catalogConfig() (types.CatalogConfig, error) {
	cfg := types.CatalogConfig{
		CorpusDir:  viper.GetString(keyCorpusDir),
		Extensions: viper.GetStringSlice(keyExtensions),
		OutputDir:  viper.GetString(keyOutputDir),
		Format:     viper.GetString(keyFormat),
		Workers:    viper.GetInt(keyWorkers),
		Duplicates: types.DuplicatePolicy(viper.GetString(keyDuplicates)),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid catalog config: %w", err)
	}
	return cfg, nil
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		IndexDir:   viper.GetString(keyIndexDir),
		MaxResults: viper.GetInt(keyMaxResults),
	}
}
