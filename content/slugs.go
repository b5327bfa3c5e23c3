package content

import (
	"github.com/eringen/pubindex/slug"
)

// AssignSlugs derives a corpus-unique slug for every post, in order, with a
// fresh slug.Slugger. The author-supplied override is used as the slug source
// when present. A post whose title cannot be slugified fails with a
// *LoadError naming it. The input slice is not modified.
func AssignSlugs(posts []Post) ([]Post, error) {
	s := slug.NewSlugger()
	out := make([]Post, len(posts))
	for i, p := range posts {
		src := p.Title
		if p.SlugOverride != "" {
			src = p.SlugOverride
		}
		v, err := s.Slug(src)
		if err != nil {
			return nil, &LoadError{Path: p.ID, Err: err}
		}
		p.Slug = v
		out[i] = p
	}
	return out, nil
}

// FindBySlug returns the post with the given slug.
func FindBySlug(posts []Post, key string) (Post, bool) {
	for _, p := range posts {
		if p.Slug == key {
			return p, true
		}
	}
	return Post{}, false
}

// matchesKey reports whether any of vals slugifies to key.
func matchesKey(vals []string, key string) bool {
	for _, v := range vals {
		if k, err := slug.Slugify(v); err == nil && k == key {
			return true
		}
	}
	return false
}
