// Package content loads authored posts and derives the listings built from
// them: slugs, visibility, category and tag taxonomies, pages and archives.
//
// Everything except the loader is a pure function over a slice of Post.
package content

import (
	"time"
)

// Post is one authored entry, as read from its front matter.
type Post struct {
	ID            string // source path relative to the content root
	Title         string
	SlugOverride  string // author-supplied "slug" field
	Slug          string // derived by AssignSlugs
	Description   string
	Author        string
	Datetime      time.Time
	ModDatetime   time.Time
	ScheduledDate time.Time
	Draft         bool
	Featured      bool
	Categories    []string
	Tags          []string
	OGImage       string
	Excerpt       string
}

// PublishAt returns the time the post becomes public: the scheduled date when
// one is set, the post date otherwise.
func (p Post) PublishAt() time.Time {
	if !p.ScheduledDate.IsZero() {
		return p.ScheduledDate
	}
	return p.Datetime
}

// Updated returns the last modification time, falling back to Datetime.
func (p Post) Updated() time.Time {
	if !p.ModDatetime.IsZero() {
		return p.ModDatetime
	}
	return p.Datetime
}

// Summary returns Description, or the body excerpt when it is empty.
func (p Post) Summary() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Excerpt
}
