// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/course-extractor/internal/extract"
	"github.com/pdiddy/course-extractor/pkg/types"
)

// --- test helpers ---

func rec(id, source string, part, number int) types.ExerciseRecord {
	return types.ExerciseRecord{
		ID:             id,
		Title:          "Title " + id,
		Description:    extract.NoDescription,
		Points:         1,
		Difficulty:     extract.DifficultyFor(id),
		PartNumber:     part,
		ExerciseNumber: number,
		Origin:         types.OriginContainer,
		SourceFile:     source,
	}
}

func meta(path string) types.DocumentMetadata {
	return types.DocumentMetadata{Path: path, PartNumber: extract.PartFromPath(path)}
}

func testScanner(t *testing.T) *extract.Scanner {
	t.Helper()
	s, err := extract.NewScanner(types.DefaultExtractionConfig())
	require.NoError(t, err)
	return s
}

func exercise(id, title string) string {
	return fmt.Sprintf("<programming-exercise tmcname=%q>\n## %s\n\nA description that is long enough to keep.\n\n- first requirement item\n\nPoints: 2\n</programming-exercise>\n", id, title)
}

func testCorpus() map[string]string {
	return map[string]string{
		"data/part-1/1-intro.md": exercise("part1-1", "Hello") + exercise("part1-2", "Names") + exercise("part1-5", "Input"),
		"data/part-1/2-vars.md":  exercise("part1-3", "Variables") + "\nSee tmcname: part1-4_extra for more.\n",
		"data/part-2/1-loops.md": exercise("part2-1", "Loops") + exercise("part1-2", "Names again"),
		"data/part-9/1-oop.md":   exercise("part9-1", "Classes"),
	}
}

// --- Builder ---

func TestBuilder_DuplicatePolicy(t *testing.T) {
	tests := []struct {
		name         string
		policy       types.DuplicatePolicy
		wantSource   string
		wantReplaced int
		wantSkipped  int
		wantLog      string
	}{
		{"default keeps last", "", "b.md", 1, 0, "duplicate exercise identifier replaced"},
		{"last", types.KeepLast, "b.md", 1, 0, "duplicate exercise identifier replaced"},
		{"first", types.KeepFirst, "a.md", 0, 1, "duplicate exercise identifier skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			b := NewBuilder(tt.policy, zap.New(core))

			b.Add([]types.ExerciseRecord{rec("part1-1", "a.md", 1, 1)}, meta("a.md"))
			b.Add([]types.ExerciseRecord{rec("part1-1", "b.md", 1, 1)}, meta("b.md"))
			c := b.Build()

			require.Equal(t, 1, c.Len())
			got, ok := c.Get("part1-1")
			require.True(t, ok)
			assert.Equal(t, tt.wantSource, got.SourceFile)

			sum := c.Summary()
			assert.Equal(t, 2, sum.ExercisesFound)
			assert.Equal(t, 1, sum.UniqueExercises)
			assert.Equal(t, tt.wantReplaced, sum.DuplicatesReplaced)
			assert.Equal(t, tt.wantSkipped, sum.DuplicatesSkipped)
			assert.Equal(t, 1, logs.FilterMessage(tt.wantLog).Len())
		})
	}
}

func TestBuilder_Ordering(t *testing.T) {
	b := NewBuilder(types.KeepLast, nil)
	b.Add([]types.ExerciseRecord{
		rec("part3-2", "z.md", 3, 2),
		rec("part1-10", "z.md", 1, 10),
		rec("part1-2", "z.md", 1, 2),
		rec("bonus", "z.md", 1, 2),
	}, meta("z.md"))
	b.Add(nil, meta("a.md"))

	c := b.Build()

	var ids []string
	for _, r := range c.Exercises() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"bonus", "part1-2", "part1-10", "part3-2"}, ids)

	docs := c.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Path)
	assert.Equal(t, "z.md", docs[1].Path)
}

func TestBuilder_BuildIsASnapshot(t *testing.T) {
	b := NewBuilder(types.KeepLast, nil)
	b.Add([]types.ExerciseRecord{rec("part1-1", "a.md", 1, 1)}, meta("a.md"))
	c := b.Build()

	b.Add([]types.ExerciseRecord{rec("part1-2", "a.md", 1, 2)}, meta("a.md"))

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("part1-2")
	assert.False(t, ok)
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	b := NewBuilder(types.KeepLast, nil)
	b.Add([]types.ExerciseRecord{rec("part1-1", "a.md", 1, 1)}, meta("a.md"))
	c := b.Build()

	c.Exercises()[0].Title = "changed"
	c.Summary().ByPart[1] = 99

	got, _ := c.Get("part1-1")
	assert.Equal(t, "Title part1-1", got.Title)
	assert.Equal(t, "Title part1-1", c.Exercises()[0].Title)
	assert.Equal(t, 1, c.Summary().ByPart[1])
}

func TestCatalog_ListFieldsAreNotShared(t *testing.T) {
	r := rec("part1-1", "a.md", 1, 1)
	r.Requirements = []string{"write a loop that ends"}
	r.Tags = []string{"part-1", "beginner"}
	m := meta("a.md")
	m.Objectives = []string{"know how to write loops"}
	m.Headers = []types.Header{{Level: 1, Title: "Loops"}}

	b := NewBuilder(types.KeepLast, nil)
	b.Add([]types.ExerciseRecord{r}, m)
	c := b.Build()

	// Mutating the builder's input must not reach the catalog.
	r.Requirements[0] = "from input"

	c.Exercises()[0].Requirements[0] = "mutated"
	c.Exercises()[0].Tags[0] = "mutated"
	got, _ := c.Get("part1-1")
	got.Requirements[0] = "mutated via get"
	c.Export().Exercises[0].Requirements[0] = "mutated via export"
	c.Documents()[0].Objectives[0] = "mutated"
	c.Documents()[0].Headers[0].Title = "mutated"

	got, _ = c.Get("part1-1")
	assert.Equal(t, []string{"write a loop that ends"}, got.Requirements)
	assert.Equal(t, []string{"part-1", "beginner"}, c.Exercises()[0].Tags)
	assert.Equal(t, []string{"know how to write loops"}, c.Documents()[0].Objectives)
	assert.Equal(t, "Loops", c.Documents()[0].Headers[0].Title)
	assert.Equal(t, "write a loop that ends", c.Export().Exercises[0].Requirements[0])
}

func TestBuilder_Summary(t *testing.T) {
	withFields := rec("part4-1", "b.md", 4, 1)
	withFields.Description = "Something real to do here."
	withFields.Requirements = []string{"first requirement"}
	withFields.Hints = []string{"hint"}
	withFields.Examples = []string{"print(1)"}
	withFields.StarterCode = "x = 0"
	withFields.TestCases = []string{"f(1) == 2"}

	fallback := rec("part12-1", "c.md", 12, 1)
	fallback.Origin = types.OriginContext

	goals := meta("part-2/goals.md")
	goals.Objectives = []string{"know how to write loops", "understand termination"}

	b := NewBuilder(types.KeepLast, nil)
	b.Add([]types.ExerciseRecord{rec("part1-1", "a.md", 1, 1)}, meta("a.md"))
	b.Add([]types.ExerciseRecord{withFields}, meta("b.md"))
	b.Add([]types.ExerciseRecord{fallback}, meta("c.md"))
	b.Add(nil, goals)

	sum := b.Build().Summary()

	assert.Equal(t, 4, sum.DocumentsScanned)
	assert.Equal(t, map[int]int{1: 3, 2: 1}, sum.DocumentsByPart)
	assert.Equal(t, map[int]int{1: 0, 2: 2}, sum.ObjectivesByPart)
	assert.Equal(t, 1, sum.FallbackRecords)
	assert.Equal(t, types.FieldCounts{
		Description: 1, Requirements: 1, Hints: 1, Examples: 1, StarterCode: 1, TestCases: 1,
	}, sum.Fields)
	assert.Equal(t, map[int]int{1: 1, 4: 1, 12: 1}, sum.ByPart)
	assert.Equal(t, map[types.Difficulty]int{
		types.DifficultyBeginner:     1,
		types.DifficultyIntermediate: 1,
		types.DifficultyAdvanced:     1,
	}, sum.ByDifficulty)
}

// --- ScanAll ---

func TestScanAll(t *testing.T) {
	var progress bytes.Buffer
	c, err := ScanAll(context.Background(), testScanner(t), testCorpus(), ScanOptions{Progress: &progress})
	require.NoError(t, err)

	sum := c.Summary()
	assert.Equal(t, 4, sum.DocumentsScanned)
	assert.Equal(t, 8, sum.ExercisesFound)
	assert.Equal(t, 7, sum.UniqueExercises)
	assert.Equal(t, 1, sum.DuplicatesReplaced)
	assert.Equal(t, 1, sum.FallbackRecords)

	// data/part-2 sorts after data/part-1, so its copy of part1-2 wins.
	names, ok := c.Get("part1-2")
	require.True(t, ok)
	assert.Equal(t, "Names again", names.Title)
	assert.Equal(t, "data/part-2/1-loops.md", names.SourceFile)

	extra, ok := c.Get("part1-4_extra")
	require.True(t, ok)
	assert.Equal(t, types.OriginContext, extra.Origin)

	assert.Contains(t, progress.String(), "scanned data/part-1/1-intro.md (3 exercises)")
	assert.Contains(t, progress.String(), "unique: 7")
}

func TestScanAll_IndependentOfWorkerCount(t *testing.T) {
	s := testScanner(t)
	docs := testCorpus()
	for i := 0; i < 20; i++ {
		docs[fmt.Sprintf("data/part-3/%02d.md", i)] = exercise(fmt.Sprintf("part3-%d", i), "Same")
		docs[fmt.Sprintf("data/part-5/%02d.md", i)] = exercise("part5-1", fmt.Sprintf("Copy %d", i))
	}

	serial, err := ScanAll(context.Background(), s, docs, ScanOptions{Workers: 1})
	require.NoError(t, err)
	parallel, err := ScanAll(context.Background(), s, docs, ScanOptions{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Export(), parallel.Export())
	last, _ := parallel.Get("part5-1")
	assert.Equal(t, "Copy 19", last.Title)
}

func TestScanAll_Empty(t *testing.T) {
	c, err := ScanAll(context.Background(), testScanner(t), nil, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Documents())
}

func TestScanAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanAll(ctx, testScanner(t), testCorpus(), ScanOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- export ---

func TestWriteYAML(t *testing.T) {
	c, err := ScanAll(context.Background(), testScanner(t), testCorpus(), ScanOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, c))

	var got types.CatalogExport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Exercises, 7)
	assert.Equal(t, "part1-1", got.Exercises[0].ID)
	assert.Equal(t, 7, got.Summary.UniqueExercises)
	assert.Contains(t, buf.String(), "learning_objectives:")
}

func TestWriteJSON(t *testing.T) {
	c, err := ScanAll(context.Background(), testScanner(t), testCorpus(), ScanOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, c))

	var got types.CatalogExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Documents, 4)
	assert.Equal(t, 2, got.Exercises[0].Points)
	assert.Equal(t, []string{"part-1", "beginner"}, got.Exercises[0].Tags)
}

func TestSave(t *testing.T) {
	c, err := ScanAll(context.Background(), testScanner(t), testCorpus(), ScanOptions{})
	require.NoError(t, err)

	tests := []struct {
		format string
		want   []string
	}{
		{"", []string{YAMLFile, ReportFile}},
		{"json", []string{JSONFile, ReportFile}},
		{"both", []string{YAMLFile, JSONFile, ReportFile}},
	}
	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")

			written, err := Save(c, dir, tt.format)
			require.NoError(t, err)

			require.Len(t, written, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, filepath.Join(dir, name), written[i])
				info, err := os.Stat(written[i])
				require.NoError(t, err)
				assert.Positive(t, info.Size())
			}
		})
	}
}

func TestSave_UnknownFormat(t *testing.T) {
	c := NewBuilder(types.KeepLast, nil).Build()

	_, err := Save(c, t.TempDir(), "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

// --- report ---

func TestWriteReport(t *testing.T) {
	docs := testCorpus()
	docs["data/part-2/0-goals.md"] = "After this part you will\n- know how to write while loops\n- understand loop termination\n\n# Loops\n"
	c, err := ScanAll(context.Background(), testScanner(t), docs, ScanOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, c))
	out := buf.String()

	assert.Contains(t, out, "Unique exercises:    7")
	assert.Contains(t, out, "Part 1: 4 exercises")
	assert.Contains(t, out, "Part 2: 2 exercises")
	assert.Contains(t, out, "Part 9: 1 exercises")
	assert.Contains(t, out, "with requirements: 7")

	assert.Contains(t, out, "Part 1: 4 exercises, 0 learning objectives, 2 content files")
	assert.Contains(t, out, "Part 2: 2 exercises, 3 learning objectives, 2 content files")
	assert.Contains(t, out, "Part 9: 1 exercises, 0 learning objectives, 1 content files")

	// Only the first three titles of a part are listed.
	part1 := out[strings.Index(out, "Part 1:"):strings.Index(out, "Part 2:")]
	assert.Equal(t, 3, strings.Count(part1, "    - "))
}
