package content

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eringen/pubindex/slug"
)

// Term is one taxonomy entry: a category or tag key and the display name it
// was first seen with.
type Term struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// UniqueCategories returns the distinct categories of the visible posts,
// sorted by key with locale-aware collation. Strings that normalize to the
// same key are one category; the first display form seen in corpus order
// wins. Categories that do not slugify are skipped.
func UniqueCategories(posts []Post, vis Visibility, locale language.Tag) []Term {
	return uniqueTerms(posts, vis, locale, func(p Post) []string { return p.Categories })
}

// UniqueTags is UniqueCategories over tags.
func UniqueTags(posts []Post, vis Visibility, locale language.Tag) []Term {
	return uniqueTerms(posts, vis, locale, func(p Post) []string { return p.Tags })
}

func uniqueTerms(posts []Post, vis Visibility, locale language.Tag, field func(Post) []string) []Term {
	seen := make(map[string]struct{})
	terms := []Term{}
	for _, p := range posts {
		if !vis.Visible(p) {
			continue
		}
		for _, name := range field(p) {
			key, err := slug.Slugify(name)
			if err != nil {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, Term{Key: key, Name: name})
		}
	}
	sortTerms(terms, locale)
	return terms
}

// sortTerms sorts by key. A Collator is not safe for concurrent use, so one
// is built per call.
func sortTerms(terms []Term, locale language.Tag) {
	c := collate.New(locale)
	c.Sort(termsByKey(terms))
}

type termsByKey []Term

func (t termsByKey) Len() int           { return len(t) }
func (t termsByKey) Swap(i, j int)      { t[i], t[j] = t[j], t[i] }
func (t termsByKey) Bytes(i int) []byte { return []byte(t[i].Key) }
