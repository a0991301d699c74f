package catalog

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pdiddy/course-extractor/pkg/types"
)

// reportSampleSize is the number of titles listed per part.
const reportSampleSize = 3

// WriteReport writes a plain-text summary of c: overall counts, exercises
// per part with the first few titles, a per-part breakdown of exercises,
// objectives and documents, and how many exercises carry each optional field.
func WriteReport(w io.Writer, c *Catalog) error {
	sum := c.Summary()
	var b strings.Builder

	b.WriteString("Course Exercise Catalog Report\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	fmt.Fprintf(&b, "Documents scanned:   %d\n", sum.DocumentsScanned)
	fmt.Fprintf(&b, "Exercises found:     %d\n", sum.ExercisesFound)
	fmt.Fprintf(&b, "Unique exercises:    %d\n", sum.UniqueExercises)
	fmt.Fprintf(&b, "Duplicates replaced: %d\n", sum.DuplicatesReplaced)
	fmt.Fprintf(&b, "Duplicates skipped:  %d\n", sum.DuplicatesSkipped)
	fmt.Fprintf(&b, "Fallback records:    %d\n", sum.FallbackRecords)

	b.WriteString("\nExercises by part:\n")
	byPart := make(map[int][]string)
	for _, r := range c.exercises {
		byPart[r.PartNumber] = append(byPart[r.PartNumber], r.Title)
	}
	parts := make([]int, 0, len(byPart))
	for p := range byPart {
		parts = append(parts, p)
	}
	slices.Sort(parts)
	for _, p := range parts {
		titles := byPart[p]
		fmt.Fprintf(&b, "  Part %d: %d exercises\n", p, len(titles))
		for _, t := range titles[:min(len(titles), reportSampleSize)] {
			fmt.Fprintf(&b, "    - %s\n", t)
		}
	}

	b.WriteString("\nPart breakdown:\n")
	for _, p := range partNumbers(sum) {
		fmt.Fprintf(&b, "  Part %d: %d exercises, %d learning objectives, %d content files\n",
			p, sum.ByPart[p], sum.ObjectivesByPart[p], sum.DocumentsByPart[p])
	}

	b.WriteString("\nExercises by difficulty:\n")
	for _, d := range []types.Difficulty{types.DifficultyBeginner, types.DifficultyIntermediate, types.DifficultyAdvanced} {
		fmt.Fprintf(&b, "  %-12s %d\n", d, sum.ByDifficulty[d])
	}

	b.WriteString("\nContent analysis:\n")
	fmt.Fprintf(&b, "  with description:  %d\n", sum.Fields.Description)
	fmt.Fprintf(&b, "  with requirements: %d\n", sum.Fields.Requirements)
	fmt.Fprintf(&b, "  with hints:        %d\n", sum.Fields.Hints)
	fmt.Fprintf(&b, "  with examples:     %d\n", sum.Fields.Examples)
	fmt.Fprintf(&b, "  with starter code: %d\n", sum.Fields.StarterCode)
	fmt.Fprintf(&b, "  with test cases:   %d\n", sum.Fields.TestCases)

	_, err := io.WriteString(w, b.String())
	return err
}

// partNumbers returns every part that has exercises or documents, ascending.
func partNumbers(sum types.CatalogSummary) []int {
	seen := make(map[int]bool)
	for p := range sum.ByPart {
		seen[p] = true
	}
	for p := range sum.DocumentsByPart {
		seen[p] = true
	}
	parts := make([]int, 0, len(seen))
	for p := range seen {
		parts = append(parts, p)
	}
	slices.Sort(parts)
	return parts
}
