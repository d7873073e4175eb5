// Package highlight splits text into plain and matched spans for a search keyword.
package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Span is a run of text that either matched the keyword or did not
type Span struct {
	Text    string
	Matched bool
}

// Projector compiles keywords into case-insensitive literal patterns and keeps the
// most recent ones around, since the UI projects the same keyword on every frame.
type Projector struct {
	patterns *lru.Cache[string, *regexp.Regexp]
}

// NewProjector creates a projector caching up to size compiled keywords
func NewProjector(size int) *Projector {
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		// lru.New only fails for a non-positive size
		panic(err)
	}
	return &Projector{patterns: cache}
}

var defaultProjector = NewProjector(64)

// Highlight projects text with the shared default projector
func Highlight(text, keyword string) []Span {
	return defaultProjector.Highlight(text, keyword)
}

// Highlight returns text split into spans, marking every non-overlapping
// case-insensitive occurrence of keyword from left to right. The keyword is
// literal text. Joining the span texts always gives back text.
func (p *Projector) Highlight(text, keyword string) []Span {
	if keyword == "" {
		return []Span{{Text: text}}
	}

	var matches [][]int
	if utf8.ValidString(keyword) {
		matches = p.pattern(keyword).FindAllStringIndex(text, -1)
	} else {
		// regexp refuses invalid UTF-8 patterns; such keywords match byte for byte
		matches = literalMatches(text, keyword)
	}
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[0]:m[1]], Matched: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

func (p *Projector) pattern(keyword string) *regexp.Regexp {
	if re, ok := p.patterns.Get(keyword); ok {
		return re
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	p.patterns.Add(keyword, re)
	return re
}

func literalMatches(text, keyword string) [][]int {
	var out [][]int
	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], keyword)
		if i < 0 {
			break
		}
		start := from + i
		out = append(out, []int{start, start + len(keyword)})
		from = start + len(keyword)
	}
	return out
}
