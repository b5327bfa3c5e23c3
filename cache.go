package pubindex

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eringen/pubindex/content"
	"github.com/eringen/pubindex/metrics"
)

// ErrNotFound is returned when a requested post is not visible.
var ErrNotFound = errors.New("pubindex: not found")

// PostIndex holds the current corpus snapshot: every post, drafts
// included, with slugs assigned. Visibility is decided per read so that
// scheduled posts appear without a reload.
type PostIndex struct {
	mu      sync.RWMutex
	posts   []content.Post
	fetched time.Time
	source  content.Source
}

// NewPostIndex creates an empty PostIndex backed by source.
func NewPostIndex(source content.Source) *PostIndex {
	return &PostIndex{source: source}
}

// Reload replaces the snapshot with a fresh load. On error the previous
// snapshot stays in place.
func (x *PostIndex) Reload(ctx context.Context) error {
	posts, err := x.source.Load(ctx)
	if err != nil {
		metrics.ReloadTotal.WithLabelValues("error").Inc()
		return err
	}
	x.mu.Lock()
	x.posts = posts
	x.fetched = time.Now()
	x.mu.Unlock()

	metrics.ReloadTotal.WithLabelValues("ok").Inc()
	metrics.PostsLoaded.Set(float64(len(posts)))
	return nil
}

// All returns the snapshot. Callers must not modify it.
func (x *PostIndex) All() []content.Post {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.posts
}

// LoadedAt returns the time of the last successful reload.
func (x *PostIndex) LoadedAt() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.fetched
}

// visibility returns the visibility rule at the app clock's current time.
func (a *App) visibility() content.Visibility {
	return content.Visibility{Now: a.clock(), Margin: a.Site.ScheduledPostMargin}
}

// visiblePosts returns the listed posts, newest first.
func (a *App) visiblePosts() []content.Post {
	return content.VisiblePosts(a.Index.All(), a.visibility())
}

// visiblePost returns one listed post by slug.
func (a *App) visiblePost(slug string) (content.Post, error) {
	p, ok := content.FindBySlug(a.Index.All(), slug)
	if !ok || !a.visibility().Visible(p) {
		return content.Post{}, ErrNotFound
	}
	return p, nil
}
