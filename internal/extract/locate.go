// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Block is one exercise's identifier and the text its fields are read from.
type Block struct {
	ID   string
	Body string
}

// Locator finds exercise blocks in a document: well-formed containers first,
// then bare identifier references rebuilt from surrounding lines.
type Locator struct {
	container *regexp.Regexp
	reference *regexp.Regexp
	radius    int
}

// NewLocator builds a Locator for containers named marker whose identifier
// is carried by attr. radius is the number of context lines kept on each
// side of a bare reference; a negative radius is treated as 0.
func NewLocator(marker, attr string, radius int) *Locator {
	m := regexp.QuoteMeta(marker)
	a := regexp.QuoteMeta(attr)
	return &Locator{
		container: regexp.MustCompile(
			`(?is)<` + m + `\s(?:[^>]*?\s)?` + a + `\s*=\s*["']([^"']+)["'][^>]*>(.*?)</` + m + `\s*>`),
		reference: regexp.MustCompile(a + `[:\s]*["']?([A-Za-z0-9_-]+)["']?`),
		radius:    max(0, radius),
	}
}

// Containers returns every well-formed container in text, in document order.
// Body is exactly the text between the opening and closing markers.
func (l *Locator) Containers(text string) []Block {
	var blocks []Block
	for _, m := range l.container.FindAllStringSubmatch(text, -1) {
		blocks = append(blocks, Block{ID: m[1], Body: m[2]})
	}
	return blocks
}

// Fallbacks returns a context-window block for every bare identifier
// reference in text that is not in captured. Each identifier is returned at
// most once. References whose line cannot be found are dropped.
func (l *Locator) Fallbacks(text string, captured map[string]bool) []Block {
	var (
		blocks []Block
		lines  []string
		seen   = make(map[string]bool)
	)
	for _, m := range l.reference.FindAllStringSubmatch(text, -1) {
		id := m[1]
		if captured[id] || seen[id] {
			continue
		}
		seen[id] = true
		if lines == nil {
			lines = strings.Split(text, "\n")
		}
		window, ok := contextWindow(lines, id, l.radius)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{ID: id, Body: window})
	}
	return blocks
}

// contextWindow returns the lines within radius of the first line containing
// token, clamped to the document.
func contextWindow(lines []string, token string, radius int) (string, bool) {
	at := -1
	for i, line := range lines {
		if strings.Contains(line, token) {
			at = i
			break
		}
	}
	if at < 0 {
		return "", false
	}
	start := max(0, at-radius)
	end := min(len(lines), at+radius+1)
	return strings.Join(lines[start:end], "\n"), true
}

// Humanize turns an identifier into a display title: underscores become
// spaces and every letter following a non-letter is upper-cased, the rest
// lower-cased ("list_helpers" → "List Helpers").
func Humanize(id string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.ReplaceAll(id, "_", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
