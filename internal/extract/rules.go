// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// Rule is one entry of a field's ordered rule list. Rules are tried in list
// order; for single-valued fields the first acceptable match wins, for
// list-valued fields the matches of every rule are concatenated in rule order.
type Rule struct {
	// Name identifies the rule in tests and diagnostics.
	Name string

	// Pattern locates a match. Without Span the captured text is the first
	// submatch group.
	Pattern *regexp.Regexp

	// Span, when set, treats Pattern as a label and returns the end offset of
	// the text that follows it, starting at the label's end.
	Span func(text string, start int) int
}

// First returns the first match of r in text.
func (r Rule) First(text string) (string, bool) {
	if r.Span == nil {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
	loc := r.Pattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[1]:r.Span(text, loc[1])], true
}

// All returns every non-overlapping match of r in text, in order.
func (r Rule) All(text string) []string {
	var out []string
	if r.Span == nil {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			out = append(out, m[1])
		}
		return out
	}
	for pos := 0; pos < len(text); {
		loc := r.Pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[1]
		end := r.Span(text, start)
		out = append(out, text[start:end])
		pos = end
	}
	return out
}

// untilParagraphBreak returns the first offset at or after start where a
// blank line begins, a line starting with a letter begins, or the text ends
// (ignoring one trailing newline).
func untilParagraphBreak(text string, start int) int {
	for p := start; p < len(text); p++ {
		if text[p] != '\n' {
			continue
		}
		if p == len(text)-1 {
			return p
		}
		if next := text[p+1]; next == '\n' || isASCIILetter(next) {
			return p
		}
	}
	return len(text)
}

// nextSectionBreak returns the offset of the first blank line or heading
// line at or after start, or -1 when there is none.
func nextSectionBreak(text string, start int) int {
	rest := text[start:]
	blank := strings.Index(rest, "\n\n")
	heading := strings.Index(rest, "\n#")
	switch {
	case blank < 0 && heading < 0:
		return -1
	case blank < 0:
		return start + heading
	case heading < 0 || blank < heading:
		return start + blank
	default:
		return start + heading
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// fencePattern matches a fenced code block with or without a language tag.
var fencePattern = regexp.MustCompile("(?s)```[\\w+-]*[ \\t]*\\n(.*?)\\n[ \\t]*```")

// TitleRules are tried in order; the first rule whose first match is
// non-empty and shorter than the configured maximum supplies the title.
var TitleRules = []Rule{
	{Name: "html-heading", Pattern: regexp.MustCompile(`(?im)<h[1-6][^>]*>(.*?)</h[1-6]>`)},
	{Name: "markdown-heading", Pattern: regexp.MustCompile(`(?im)#{1,6}\s*(.+?)$`)},
	{Name: "title-key", Pattern: regexp.MustCompile(`(?im)title[:\s]*["']?([^"'\n]+)["']?`)},
	{Name: "title-tag", Pattern: regexp.MustCompile(`(?im)<title[^>]*>(.*?)</title>`)},
}

// RequirementRules collect list items: dashed or starred bullets, numbered
// items, then bullet-character items.
var RequirementRules = []Rule{
	{Name: "bullet", Pattern: regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+)$`)},
	{Name: "numbered", Pattern: regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+(.+)$`)},
	{Name: "bullet-char", Pattern: regexp.MustCompile(`(?m)^[ \t]*•[ \t]*(.+)$`)},
}

// HintRules collect labelled hint, tip and note text up to the end of the line.
var HintRules = []Rule{
	{Name: "hint", Pattern: regexp.MustCompile(`(?i)hint[:\s]*(.+)`)},
	{Name: "tip", Pattern: regexp.MustCompile(`(?i)tip[:\s]*(.+)`)},
	{Name: "note", Pattern: regexp.MustCompile(`(?i)note[:\s]*(.+)`)},
}

// ExampleRules collect fenced code blocks, inline code elements and sample
// output elements.
var ExampleRules = []Rule{
	{Name: "fenced-code", Pattern: fencePattern},
	{Name: "code-tag", Pattern: regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)},
	{Name: "sample-output", Pattern: regexp.MustCompile(`(?is)<sample-output[^>]*>(.*?)</sample-output>`)},
}

// StarterRules are tried in order; the first non-empty match is the starter code.
var StarterRules = []Rule{
	{Name: "starter", Pattern: regexp.MustCompile(`(?is)starter[^:]*:`), Span: untilParagraphBreak},
	{Name: "template", Pattern: regexp.MustCompile(`(?is)template[^:]*:`), Span: untilParagraphBreak},
	{Name: "first-fence", Pattern: fencePattern},
}

// TestCaseRules collect labelled test, example and output lines.
var TestCaseRules = []Rule{
	{Name: "test", Pattern: regexp.MustCompile(`(?i)test[^:]*:(.*)`)},
	{Name: "example", Pattern: regexp.MustCompile(`(?i)example[^:]*:(.*)`)},
	{Name: "output", Pattern: regexp.MustCompile(`(?i)output[^:]*:(.*)`)},
}

// pointsPattern matches a "points: N" label.
var pointsPattern = regexp.MustCompile(`(?i)points?[:\s]*(\d+)`)

// tagPattern matches any markup tag.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
