// Package slug derives URL-safe identifiers from human-authored text.
//
// Slugify is a pure function of its input. A Slugger adds a per-batch
// registry on top of it so that every slug emitted within one batch is
// unique; use a fresh Slugger for every independent batch.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput is returned when text has no alphanumeric content to build
// a slug from.
var ErrInvalidInput = errors.New("slug: no alphanumeric content")

// InvalidInputError carries the offending input. It unwraps to ErrInvalidInput.
type InvalidInputError struct {
	Input string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("slug: %q has no alphanumeric content", e.Input)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

var validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Slugify converts text to a lowercase, hyphen-delimited slug.
//
// Diacritics are folded to their base letters and any remaining non-ASCII
// letters are transliterated. Whitespace, dashes, underscores and slashes
// separate words; other punctuation is dropped, so ".NET" and "N.E.T" both
// become "net".
func Slugify(text string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(text))
	if err != nil {
		folded = text
	}
	ascii := strings.ToLower(unidecode.Unidecode(folded))

	var b strings.Builder
	b.Grow(len(ascii))
	sep := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case isSeparator(r):
			sep = true
		}
	}
	if b.Len() == 0 {
		return "", &InvalidInputError{Input: text}
	}
	return b.String(), nil
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/'
}

// IsValid reports whether s is already in canonical slug form.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}

// Slugger assigns unique slugs within a single batch. On collision it appends
// "-2", "-3", ... to the base slug; the first text to claim a slug keeps it.
// A Slugger is not safe for concurrent use.
type Slugger struct {
	// used maps an emitted slug to the last suffix tried for it as a base.
	used map[string]int
}

// NewSlugger returns a Slugger with an empty registry.
func NewSlugger() *Slugger {
	return &Slugger{used: make(map[string]int)}
}

// Slug returns the unique slug for text within this batch.
func (s *Slugger) Slug(text string) (string, error) {
	base, err := Slugify(text)
	if err != nil {
		return "", err
	}
	n, taken := s.used[base]
	if !taken {
		s.used[base] = 1
		return base, nil
	}
	for {
		n++
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := s.used[candidate]; taken {
			continue
		}
		s.used[base] = n
		s.used[candidate] = 1
		return candidate, nil
	}
}

// Len returns the number of slugs emitted so far.
func (s *Slugger) Len() int {
	return len(s.used)
}

// Reset clears the registry.
func (s *Slugger) Reset() {
	clear(s.used)
}

// Batch slugs texts in order with a fresh Slugger.
func Batch(texts []string) ([]string, error) {
	s := NewSlugger()
	out := make([]string, len(texts))
	for i, t := range texts {
		v, err := s.Slug(t)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
