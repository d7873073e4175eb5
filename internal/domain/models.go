package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCardType is the type given to cards created without an explicit category
const DefaultCardType = "思念"

// ErrUnknownCategory is returned when a tag is not part of the category vocabulary
var ErrUnknownCategory = errors.New("unknown category")

// Category is one tag of the fixed content vocabulary
type Category uint8

// The vocabulary, in canonical order
const (
	CategoryMainStory Category = iota + 1
	CategoryOtherWorld
	CategoryRumors
	CategoryDates
	CategoryPhone
)

var categoryTags = [...]string{
	CategoryMainStory:  "主线剧情",
	CategoryOtherWorld: "世界之外",
	CategoryRumors:     "逆闻",
	CategoryDates:      "约会剧情",
	CategoryPhone:      "手机剧情",
}

// Categories returns the whole vocabulary in canonical order
func Categories() []Category {
	return []Category{
		CategoryMainStory,
		CategoryOtherWorld,
		CategoryRumors,
		CategoryDates,
		CategoryPhone,
	}
}

// Valid reports whether c belongs to the vocabulary
func (c Category) Valid() bool {
	return c >= CategoryMainStory && c <= CategoryPhone
}

// String returns the display tag of the category
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryTags[c]
}

// ParseCategory maps a display tag back to its category
func ParseCategory(tag string) (Category, error) {
	tag = strings.TrimSpace(tag)
	for _, c := range Categories() {
		if categoryTags[c] == tag {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, tag)
}

// FilterSet is the subset of categories currently narrowing a search.
// The zero value is the empty set.
type FilterSet uint8

// NewFilterSet builds a set holding the given categories
func NewFilterSet(categories ...Category) FilterSet {
	var f FilterSet
	for _, c := range categories {
		if c.Valid() {
			f |= 1 << c
		}
	}
	return f
}

// ParseFilterSet parses a comma-separated list of tags. Blank items are skipped.
func ParseFilterSet(csv string) (FilterSet, error) {
	var f FilterSet
	for _, item := range strings.Split(csv, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		c, err := ParseCategory(item)
		if err != nil {
			return 0, err
		}
		f |= 1 << c
	}
	return f, nil
}

// Toggle flips membership of c. Categories outside the vocabulary are ignored.
func (f FilterSet) Toggle(c Category) FilterSet {
	if !c.Valid() {
		return f
	}
	return f ^ (1 << c)
}

// Has reports whether c is in the set
func (f FilterSet) Has(c Category) bool {
	return c.Valid() && f&(1<<c) != 0
}

// IsEmpty reports whether no category is selected
func (f FilterSet) IsEmpty() bool {
	return f == 0
}

// Len returns the number of selected categories
func (f FilterSet) Len() int {
	n := 0
	for _, c := range Categories() {
		if f.Has(c) {
			n++
		}
	}
	return n
}

// Categories returns the members in canonical order
func (f FilterSet) Categories() []Category {
	var out []Category
	for _, c := range Categories() {
		if f.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Tags returns the display tags of the members in canonical order
func (f FilterSet) Tags() []string {
	var out []string
	for _, c := range f.Categories() {
		out = append(out, c.String())
	}
	return out
}

// String returns the comma-joined tags, empty for the empty set
func (f FilterSet) String() string {
	return strings.Join(f.Tags(), ",")
}

// SearchHit is a single match returned by the lookup service
type SearchHit struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// ResultSet holds the hits of one completed lookup
type ResultSet struct {
	Sequence uint64
	Query    string
	Filters  FilterSet
	Total    int
	Hits     []SearchHit
}

// Len returns the number of hits
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Hits)
}

// Card is a stored content item
type Card struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Story     string    `json:"story"`
	CreatedAt time.Time `json:"created_at"`
}

// ResolveCardType maps a requested card type to the stored tag. Blank selects
// DefaultCardType; anything else must be a vocabulary tag.
func ResolveCardType(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == DefaultCardType {
		return DefaultCardType, nil
	}
	c, err := ParseCategory(requested)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
