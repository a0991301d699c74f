// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/course-extractor/internal/extract"
	"github.com/pdiddy/course-extractor/internal/index"
	"github.com/pdiddy/course-extractor/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the exercise index (store, retrieve, export)",
	Long: `Index manages a local SQLite database of extracted exercises with
full-text search over titles and descriptions. Use subcommands to store a
freshly scanned corpus, query it, or export it.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Scan the corpus and store its exercises in the index",
	Long: `Store scans the corpus, builds the catalog and writes every document and
its exercises to index/catalog.db. Documents whose exercises are unchanged
since the last run are skipped.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	if err := bindScanFlags(cmd); err != nil {
		return err
	}
	if err := bindIndexFlags(cmd); err != nil {
		return err
	}

	cat, err := scanCorpus(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Store(cmd.Context(), cat, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the index with full-text search and filters",
	Long: `Retrieve searches exercise titles and descriptions using FTS5 full-text
search, structured filters (difficulty, part, document, tag), or both.

Use --trace with an exercise identifier to print the source block it was
extracted from.`,
	RunE: runIndexRetrieve,
}

func runIndexRetrieve(cmd *cobra.Command, args []string) error {
	if err := bindIndexFlags(cmd); err != nil {
		return err
	}
	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if traceID, _ := cmd.Flags().GetString("trace"); traceID != "" {
		if err := bindFlags(cmd, map[string]string{
			keyCorpusDir:      "corpus",
			keyMarker:         "marker",
			keyIdentifierAttr: "attr",
		}); err != nil {
			return err
		}
		ext := extractionConfig()
		if err := ext.Validate(); err != nil {
			return fmt.Errorf("invalid extraction config: %w", err)
		}
		loc := extract.NewLocator(ext.Marker, ext.IdentifierAttr, ext.ContextRadius)
		text, err := store.Trace(cmd.Context(), traceID, loc, viper.GetString(keyCorpusDir))
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --difficulty, --part, --source, or --tag")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-40s  %-12s  %-4s  %s\n",
		"Rank", "ID", "Title", "Difficulty", "Part", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-40s  %-12s  %-4d  %s\n",
			i+1, clip(r.ID, 20), clip(r.Title, 40), r.Difficulty, r.PartNumber, r.SourceFile)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// clip shortens s to at most n characters, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the indexed exercises (or a filtered subset) to
index/export.yaml or export.json. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	if err := bindIndexFlags(cmd); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := index.Open(indexConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func bindIndexFlags(cmd *cobra.Command) error {
	return bindFlags(cmd, map[string]string{
		keyIndexDir:   "index-dir",
		keyMaxResults: "max-results",
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	difficulty, _ := cmd.Flags().GetString("difficulty")
	part, _ := cmd.Flags().GetInt("part")
	source, _ := cmd.Flags().GetString("source")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Difficulty: types.Difficulty(difficulty),
		Part:       part,
		SourceFile: source,
		Tags:       tags,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search query")
	cmd.Flags().String("difficulty", "", "filter by difficulty: beginner, intermediate, advanced")
	cmd.Flags().Int("part", 0, "filter by part number")
	cmd.Flags().String("source", "", "filter by source document path")
	cmd.Flags().StringSlice("tag", nil, "filter by tag (repeatable, all must match)")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding catalog.db and export files")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	addScanFlags(indexStoreCmd)

	addFilterFlags(indexRetrieveCmd)
	indexRetrieveCmd.Flags().String("trace", "", "show the source block for an exercise ID")
	indexRetrieveCmd.Flags().String("corpus", "data", "corpus directory used by --trace")
	indexRetrieveCmd.Flags().String("marker", "programming-exercise", "container element name used by --trace")
	indexRetrieveCmd.Flags().String("attr", "tmcname", "identifier attribute used by --trace")
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(indexExportCmd)
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
