package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocator() *Locator {
	return NewLocator("programming-exercise", "tmcname", 10)
}

func TestContainers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "identifier kept verbatim",
			text: "<programming-exercise name='Sum' tmcname=\"Part1-01_Sum\">\nbody\n</programming-exercise>",
			want: []Block{{ID: "Part1-01_Sum", Body: "\nbody\n"}},
		},
		{
			name: "case-insensitive markers",
			text: "<PROGRAMMING-EXERCISE TMCNAME='x1'>a</Programming-Exercise>",
			want: []Block{{ID: "x1", Body: "a"}},
		},
		{
			name: "identifier before other attributes",
			text: "<programming-exercise tmcname=\"a\" name=\"b\">inner</programming-exercise>",
			want: []Block{{ID: "a", Body: "inner"}},
		},
		{
			name: "attributes across lines and nested markup",
			text: "<programming-exercise\n  name=\"T\"\n  tmcname=\"part1-2\"\n>\n<h2>T</h2>\n<p>x</p>\n</programming-exercise>",
			want: []Block{{ID: "part1-2", Body: "\n<h2>T</h2>\n<p>x</p>\n"}},
		},
		{
			name: "several containers in order",
			text: "<programming-exercise tmcname='b'>1</programming-exercise> text <programming-exercise tmcname='a'>2</programming-exercise>",
			want: []Block{{ID: "b", Body: "1"}, {ID: "a", Body: "2"}},
		},
		{
			name: "no containers",
			text: "# Heading\n\nPlain prose.",
			want: nil,
		},
		{
			name: "unclosed container",
			text: "<programming-exercise tmcname='a'>never closed",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testLocator().Containers(tt.text))
		})
	}
}

func numberedLines(n, refAt int, ref string) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	lines[refAt] = ref
	return strings.Join(lines, "\n")
}

func TestFallbacks_Window(t *testing.T) {
	text := numberedLines(31, 15, "tmcname: part2-7")

	blocks := testLocator().Fallbacks(text, nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, "part2-7", blocks[0].ID)
	lines := strings.Split(blocks[0].Body, "\n")
	assert.Len(t, lines, 21)
	assert.Equal(t, "line 5", lines[0])
	assert.Equal(t, "tmcname: part2-7", lines[10])
	assert.Equal(t, "line 25", lines[20])
}

func TestFallbacks_ClampedAtDocumentStart(t *testing.T) {
	text := numberedLines(31, 2, "tmcname 'part2-8'")

	blocks := testLocator().Fallbacks(text, nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, "part2-8", blocks[0].ID)
	lines := strings.Split(blocks[0].Body, "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, "line 0", lines[0])
	assert.Equal(t, "line 12", lines[12])
}

func TestFallbacks_ClampedAtDocumentEnd(t *testing.T) {
	text := numberedLines(5, 4, "tmcname: last")

	blocks := testLocator().Fallbacks(text, nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, text, blocks[0].Body)
}

func TestFallbacks_NegativeRadiusKeepsOnlyTheReferenceLine(t *testing.T) {
	text := "a\nb\nc\ntmcname: x1\nd\ne"

	blocks := NewLocator("programming-exercise", "tmcname", -5).Fallbacks(text, nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, "tmcname: x1", blocks[0].Body)
}

func TestFallbacks_SkipsCapturedAndRepeated(t *testing.T) {
	text := "tmcname: part1-1\ntmcname: part1-2\nagain tmcname: part1-2"

	blocks := testLocator().Fallbacks(text, map[string]bool{"part1-1": true})

	require.Len(t, blocks, 1)
	assert.Equal(t, "part1-2", blocks[0].ID)
}

func TestFallbacks_AttributeSyntaxIsNotABareReference(t *testing.T) {
	text := "<programming-exercise tmcname=\"part1-1\">x</programming-exercise>"

	assert.Empty(t, testLocator().Fallbacks(text, nil))
}

func TestContextWindow_MissingToken(t *testing.T) {
	_, ok := contextWindow([]string{"a", "b"}, "zzz", 10)
	assert.False(t, ok)
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"list_helpers":   "List Helpers",
		"part1-1":        "Part1-1",
		"sum_of_NUMBERS": "Sum Of Numbers",
		"abc1def":        "Abc1Def",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), "Humanize(%q)", in)
	}
}
