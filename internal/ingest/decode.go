// Package ingest turns text and HTML files into cards.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"snowthaw/internal/domain"
)

// ErrEmptyStory is returned when a file holds no text after decoding
var ErrEmptyStory = errors.New("empty story")

// ErrUnsupported is returned for file types the importer does not read
var ErrUnsupported = errors.New("unsupported file type")

// Untitled names cards whose file name has no stem
const Untitled = "untitled"

var textExts = map[string]bool{".txt": true, ".md": true}
var htmlExts = map[string]bool{".html": true, ".htm": true}

// Supported reports whether path has an extension the importer reads
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return textExts[ext] || htmlExts[ext]
}

// Stem returns the file name without directory and extension
func Stem(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, `\`, "/"))
	if base == "." || base == "/" {
		return Untitled
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(stem) == "" {
		return Untitled
	}
	return stem
}

// Decode turns raw bytes into text. A UTF-8 or UTF-16 byte order mark selects the
// encoding and is removed; otherwise the input is read as UTF-8 with invalid bytes
// dropped. Surrounding whitespace is trimmed.
func Decode(raw []byte) string {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		decoded = raw
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(decoded), ""))
}

// blockElements end a line of extracted text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "pre": true,
}

// ExtractHTML returns the visible text of an HTML document, one line per block element
func ExtractHTML(raw []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader([]byte(Decode(raw))))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var lines []string
	var line strings.Builder
	flush := func() {
		if text := strings.Join(strings.Fields(line.String()), " "); text != "" {
			lines = append(lines, text)
		}
		line.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			line.WriteString(n.Data)
			line.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	return strings.Join(lines, "\n"), nil
}

// ReadStory decodes a file's content according to its name
func ReadStory(name string, raw []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	var story string
	switch {
	case htmlExts[ext]:
		text, err := ExtractHTML(raw)
		if err != nil {
			return "", err
		}
		story = text
	case textExts[ext], ext == "":
		story = Decode(raw)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if story == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyStory, name)
	}
	return story, nil
}

// NewCard builds a card with a fresh random id
func NewCard(typ, name, story string) domain.Card {
	return domain.Card{
		ID:        uuid.NewString(),
		Type:      typ,
		Name:      name,
		Story:     story,
		CreatedAt: time.Now().UTC(),
	}
}

// FileCardID derives a stable id from a file's absolute path so re-importing the
// same file updates its card
func FileCardID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))).String()
}
