// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/course-extractor/pkg/types"
)

const (
	// UntitledExercise is the title used when no title rule matches.
	UntitledExercise = "Untitled Exercise"

	// NoDescription is the description used when no paragraph qualifies.
	NoDescription = "No description available"

	// truncationMarker is appended to descriptions cut at the limit.
	truncationMarker = "..."

	// minDescriptionLength is the length a paragraph must exceed to be a description.
	minDescriptionLength = 20
)

// Fields holds the values recovered from one exercise block.
type Fields struct {
	Title        string
	Description  string
	Requirements []string
	Hints        []string
	Examples     []string
	StarterCode  string
	TestCases    []string
	Points       int
}

// ExtractFields runs every field extractor over block using the limits in cfg.
// It never fails: absent fields hold their documented defaults and list
// fields are empty, not nil.
func ExtractFields(block string, cfg types.ExtractionConfig) Fields {
	return Fields{
		Title:        Title(block, cfg.TitleMaxLength),
		Description:  Description(block, cfg.DescriptionLimit),
		Requirements: orEmpty(Requirements(block, cfg.MinRequirementLength, cfg.RequirementsCap)),
		Hints:        orEmpty(Hints(block)),
		Examples:     orEmpty(Examples(block)),
		StarterCode:  StarterCode(block),
		TestCases:    orEmpty(TestCases(block)),
		Points:       Points(block),
	}
}

// Title returns the first title candidate, in TitleRules order, that is
// non-empty and shorter than maxLen characters after markup is stripped.
// Only the first match of each rule is considered.
func Title(block string, maxLen int) string {
	for _, rule := range TitleRules {
		m, ok := rule.First(block)
		if !ok {
			continue
		}
		title := strings.TrimSpace(stripTags(m))
		if title != "" && utf8.RuneCountInString(title) < maxLen {
			return title
		}
	}
	return UntitledExercise
}

// Description returns the first markup-free paragraph longer than 20
// characters that is not a heading, truncated to limit characters plus "...".
func Description(block string, limit int) string {
	text := stripTags(block)
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if utf8.RuneCountInString(para) <= minDescriptionLength || strings.HasPrefix(para, "#") {
			continue
		}
		return truncate(para, limit)
	}
	return NoDescription
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + truncationMarker
}

// Requirements collects list items longer than minLen characters from every
// RequirementRules style, in rule order, keeping at most limit items.
func Requirements(block string, minLen, limit int) []string {
	var out []string
	for _, rule := range RequirementRules {
		for _, m := range rule.All(block) {
			item := strings.TrimSpace(m)
			if utf8.RuneCountInString(item) > minLen {
				out = append(out, item)
			}
		}
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Hints collects labelled hint, tip and note text.
func Hints(block string) []string {
	return collectTrimmed(block, HintRules, false)
}

// Examples collects non-empty code and sample output bodies.
func Examples(block string) []string {
	return collectTrimmed(block, ExampleRules, true)
}

// TestCases collects labelled test, example and output text.
func TestCases(block string) []string {
	return collectTrimmed(block, TestCaseRules, false)
}

// StarterCode returns the first non-empty match of StarterRules, or "".
func StarterCode(block string) string {
	for _, rule := range StarterRules {
		m, ok := rule.First(block)
		if !ok {
			continue
		}
		if code := strings.TrimSpace(m); code != "" {
			return code
		}
	}
	return ""
}

// Points returns the value of the first "points:" label, or 1 when the label
// is absent, malformed or not positive.
func Points(block string) int {
	m := pointsPattern.FindStringSubmatch(block)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func collectTrimmed(block string, rules []Rule, skipEmpty bool) []string {
	var out []string
	for _, rule := range rules {
		for _, m := range rule.All(block) {
			m = strings.TrimSpace(m)
			if skipEmpty && m == "" {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
