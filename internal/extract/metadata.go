// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/course-extractor/pkg/types"
)

// headerLineRe matches a markdown heading line.
var headerLineRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)

// ObjectiveLeads introduce learning-objective passages. Each passage runs
// from the lead to the next blank line or heading line; a lead with no such
// break after it yields nothing.
var ObjectiveLeads = []*regexp.Regexp{
	regexp.MustCompile(`(?is)after this part.*?you will`),
	regexp.MustCompile(`(?is)you will`),
	regexp.MustCompile(`(?is)learning objectives`),
	regexp.MustCompile(`(?is)in this part.*?you`),
}

// Headers returns every markdown heading line in text, in order.
func Headers(text string) []types.Header {
	var headers []types.Header
	for _, m := range headerLineRe.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		headers = append(headers, types.Header{Level: len(m[1]), Title: title})
	}
	return headers
}

// Objectives returns the learning-objective lines of text. Passages found by
// ObjectiveLeads are stripped of markup and split into lines; heading lines,
// lines of minLen characters or fewer, and repeated lines are dropped.
func Objectives(text string, minLen int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, lead := range ObjectiveLeads {
		for _, passage := range objectivePassages(lead, text) {
			for _, line := range strings.Split(stripTags(passage), "\n") {
				line = strings.TrimSpace(line)
				if line == "" || strings.HasPrefix(line, "#") || utf8.RuneCountInString(line) <= minLen {
					continue
				}
				if seen[line] {
					continue
				}
				seen[line] = true
				out = append(out, line)
			}
		}
	}
	return out
}

func objectivePassages(lead *regexp.Regexp, text string) []string {
	var passages []string
	for pos := 0; pos < len(text); {
		loc := lead.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		end := nextSectionBreak(text, pos+loc[1])
		if end < 0 {
			break
		}
		passages = append(passages, text[start:end])
		pos = end
	}
	return passages
}

// frontmatter is the subset of a course page's YAML header the scanner reads.
type frontmatter struct {
	Title string `yaml:"title"`
}

// parseFrontmatter reads the YAML block between leading --- delimiters.
// Missing or invalid frontmatter yields the zero value.
func parseFrontmatter(text string) frontmatter {
	const delim = "---"
	trimmed := strings.TrimLeft(text, "\n")
	if !strings.HasPrefix(trimmed, delim) {
		return frontmatter{}
	}
	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return frontmatter{}
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return frontmatter{}
	}
	return fm
}
