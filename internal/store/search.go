package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"snowthaw/internal/domain"
)

// ErrInvalidQuery is returned for a query that is not valid UTF-8
var ErrInvalidQuery = errors.New("query is not valid UTF-8")

// SearchParams narrows a keyword lookup
type SearchParams struct {
	Query       string
	Types       []string // empty means every type
	Limit       int      // maximum number of matching cards
	Window      int      // runes kept on each side of a match
	MaxSnippets int      // per card
}

// Search finds cards whose name or story contains the query, case-insensitively, and
// returns one hit per occurrence in each card's story, in card creation order.
//
// Matching is done here rather than with LIKE, which folds ASCII letters only.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]domain.SearchHit, error) {
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return []domain.SearchHit{}, nil
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	sqlText := `SELECT id, type, name, story, created_at FROM cards`
	var args []any
	if len(p.Types) > 0 {
		sqlText += " WHERE type IN (?" + strings.Repeat(", ?", len(p.Types)-1) + ")"
		for _, t := range p.Types {
			args = append(args, t)
		}
	}
	sqlText += " ORDER BY created_at, rowid"

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("searching cards: %w", err)
	}
	defer rows.Close()

	hits := []domain.SearchHit{}
	matched := 0
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("reading card: %w", err)
		}
		if !re.MatchString(card.Name) && !re.MatchString(card.Story) {
			continue
		}
		for _, snippet := range Snippets(card.Story, re, p.Window, p.MaxSnippets) {
			hits = append(hits, domain.SearchHit{
				ID:      card.ID,
				Type:    card.Type,
				Name:    card.Name,
				Snippet: snippet,
			})
		}
		matched++
		if p.Limit > 0 && matched >= p.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}
	return hits, nil
}

// Snippets cuts an excerpt around each match of re in text: window runes before and
// after the match, newlines turned into spaces, surrounding space trimmed. Blank
// excerpts are skipped and at most limit are returned (limit < 1 means no limit).
func Snippets(text string, re *regexp.Regexp, window, limit int) []string {
	if window < 0 {
		window = 0
	}
	var out []string

	// rune offsets are tracked incrementally; matches come left to right
	runePos, bytePos := 0, 0
	runeAt := func(b int) int {
		runePos += utf8.RuneCountInString(text[bytePos:b])
		bytePos = b
		return runePos
	}
	runes := []rune(text)

	for _, m := range re.FindAllStringIndex(text, -1) {
		start := runeAt(m[0])
		end := runeAt(m[1])

		from := start - window
		if from < 0 {
			from = 0
		}
		to := end + window
		if to > len(runes) {
			to = len(runes)
		}

		snippet := strings.TrimSpace(strings.ReplaceAll(string(runes[from:to]), "\n", " "))
		if snippet != "" {
			out = append(out, snippet)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
