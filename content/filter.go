package content

import (
	"slices"
	"strings"
	"time"

	"github.com/eringen/pubindex/slug"
)

// Visibility decides which posts are listed at a given instant.
//
// A post is visible when it is not a draft and its publish time is no later
// than Now plus Margin. The margin lets a scheduled post go live slightly
// ahead of its timestamp while the build propagates; zero means strictly at
// publish time.
type Visibility struct {
	Now    time.Time
	Margin time.Duration
}

// Visible reports whether p is listed.
func (v Visibility) Visible(p Post) bool {
	if p.Draft {
		return false
	}
	at := p.PublishAt()
	if at.IsZero() {
		return true
	}
	return !at.After(v.Now.Add(v.Margin))
}

// VisiblePosts returns the visible posts, newest first. Posts with the same
// Datetime are ordered by slug.
func VisiblePosts(posts []Post, vis Visibility) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if vis.Visible(p) {
			out = append(out, p)
		}
	}
	SortByDate(out)
	return out
}

// SortByDate sorts posts newest first, breaking ties by slug.
func SortByDate(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		if c := b.Datetime.Compare(a.Datetime); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

// PostsByCategory returns the posts with a category that slugifies to the
// same key as category. Matching happens on keys only, so "C #" matches a
// post in "c#" but "C#" does not match "c-sharp". Order is preserved.
func PostsByCategory(posts []Post, category string) []Post {
	return postsByKey(posts, category, func(p Post) []string { return p.Categories })
}

// PostsByTag is PostsByCategory over tags.
func PostsByTag(posts []Post, tag string) []Post {
	return postsByKey(posts, tag, func(p Post) []string { return p.Tags })
}

func postsByKey(posts []Post, query string, field func(Post) []string) []Post {
	key, err := slug.Slugify(query)
	if err != nil {
		return nil
	}
	var out []Post
	for _, p := range posts {
		if matchesKey(field(p), key) {
			out = append(out, p)
		}
	}
	return out
}

// NeedsPreviewImage returns the visible posts without an author-supplied
// preview image: the posts a preview must be generated for.
func NeedsPreviewImage(posts []Post, vis Visibility) []Post {
	var out []Post
	for _, p := range VisiblePosts(posts, vis) {
		if p.OGImage == "" {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedAndRecent splits posts into featured posts and up to n of the
// remaining ones, preserving order. n <= 0 means no recent posts.
func FeaturedAndRecent(posts []Post, n int) (featured, recent []Post) {
	for _, p := range posts {
		switch {
		case p.Featured:
			featured = append(featured, p)
		case len(recent) < n:
			recent = append(recent, p)
		}
	}
	return featured, recent
}

// RelatedPosts finds posts that share at least one category key with
// current, excluding current itself.
func RelatedPosts(current Post, posts []Post) []Post {
	keys := make(map[string]struct{})
	for _, c := range current.Categories {
		if k, err := slug.Slugify(c); err == nil {
			keys[k] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, c := range p.Categories {
			k, err := slug.Slugify(c)
			if err != nil {
				continue
			}
			if _, ok := keys[k]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
