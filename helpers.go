package pubindex

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/eringen/pubindex/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostPath returns the site-relative path of a post.
func PostPath(slug string) string {
	return "/posts/" + slug + "/"
}

// PostImagePath returns the site-relative path of a post's generated
// preview image.
func PostImagePath(slug string) string {
	return "/posts/" + slug + "/index.png"
}

// pagePath returns the path of page n of a listing rooted at base, which
// must end with a slash. Page 1 is base itself.
func pagePath(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "page/" + strconv.Itoa(n) + "/"
}

func (a *App) summary(p content.Post) PostSummary {
	s := PostSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Summary(),
		Author:      p.Author,
		Datetime:    p.Datetime,
		Featured:    p.Featured,
		Categories:  nonNil(p.Categories),
		Tags:        nonNil(p.Tags),
		URL:         BuildURL(a.Site.Website, "posts", p.Slug),
		OGImage:     p.OGImage,
	}
	if !p.ModDatetime.IsZero() {
		mod := p.ModDatetime
		s.ModDatetime = &mod
	}
	if s.OGImage == "" {
		s.OGImage = strings.TrimRight(a.Site.Website, "/") + PostImagePath(p.Slug)
	}
	return s
}

func (a *App) summaries(posts []content.Post) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = a.summary(p)
	}
	return out
}

func (a *App) pageResponse(page content.Page, base string) PageResponse {
	r := PageResponse{
		Posts:      a.summaries(page.Posts),
		Page:       page.Number,
		TotalPages: page.TotalPages,
		TotalPosts: page.TotalPosts,
	}
	if page.HasPrev() {
		r.Prev = pagePath(base, page.Number-1)
	}
	if page.HasNext() {
		r.Next = pagePath(base, page.Number+1)
	}
	return r
}

func nonNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}
