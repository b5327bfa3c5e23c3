package pubindex

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/pubindex/config"
	"github.com/eringen/pubindex/content"
	"github.com/eringen/pubindex/slug"
)

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/og.png", a.handleSiteImage)
	e.GET("/posts/:slug/index.png", a.handlePostImage)

	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/posts/page/:page/", a.handlePosts)
	e.GET("/posts/:slug/", a.handlePost)

	e.GET("/categories/", a.handleCategories)
	e.GET("/categories/:category/", a.handleCategory)
	e.GET("/categories/:category/page/:page/", a.handleCategory)

	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/page/:page/", a.handleTag)

	e.GET("/archives/", a.handleArchives)
}

func (a *App) handleHome(c echo.Context) error {
	featured, recent := content.FeaturedAndRecent(a.visiblePosts(), a.Site.PostPerIndex)
	socials := a.Site.ActiveSocials()
	if socials == nil {
		socials = []config.Social{}
	}
	return c.JSON(http.StatusOK, IndexResponse{
		Title:        a.Site.Title,
		Description:  a.Site.Desc,
		Featured:     a.summaries(featured),
		Recent:       a.summaries(recent),
		Socials:      socials,
		ShowArchives: a.Site.ShowArchives,
		AllPostsURL:  "/posts/",
	})
}

// pageParam returns the 1-based page number of the request. A missing
// parameter means page 1. canonical is false when the parameter is present
// but not the form the listing links to ("1", "02").
func pageParam(c echo.Context) (n int, canonical bool, err error) {
	raw := c.Param("page")
	if raw == "" {
		return 1, true, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false, echo.ErrNotFound
	}
	return n, n > 1 && strconv.Itoa(n) == raw, nil
}

// listing answers one page of posts under base. Non-canonical page URLs
// redirect to the canonical one; an out-of-range page is 404.
func (a *App) listing(c echo.Context, posts []content.Post, base string, respond func(PageResponse) any) error {
	n, canonical, err := pageParam(c)
	if err != nil {
		return err
	}
	if !canonical {
		return c.Redirect(http.StatusMovedPermanently, pagePath(base, n))
	}
	page, err := content.Paginate(posts, n, a.Site.PostPerPage)
	if errors.Is(err, content.ErrPageOutOfRange) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, respond(a.pageResponse(page, base)))
}

func (a *App) handlePosts(c echo.Context) error {
	return a.listing(c, a.visiblePosts(), "/posts/", func(r PageResponse) any { return r })
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.visiblePost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.JSON(http.StatusOK, PostDetail{
		PostSummary: a.summary(post),
		EditURL:     a.Site.EditURL(post.ID),
		Related:     a.summaries(content.RelatedPosts(post, a.visiblePosts())),
	})
}

func (a *App) termSummaries(terms []content.Term, base string, match func([]content.Post, string) []content.Post) []TermSummary {
	visible := a.visiblePosts()
	out := make([]TermSummary, len(terms))
	for i, t := range terms {
		out[i] = TermSummary{
			Key:   t.Key,
			Name:  t.Name,
			Count: len(match(visible, t.Key)),
			URL:   base + t.Key + "/",
		}
	}
	return out
}

func (a *App) handleCategories(c echo.Context) error {
	terms := content.UniqueCategories(a.Index.All(), a.visibility(), a.Site.Language())
	return c.JSON(http.StatusOK, a.termSummaries(terms, "/categories/", content.PostsByCategory))
}

func (a *App) handleTags(c echo.Context) error {
	terms := content.UniqueTags(a.Index.All(), a.visibility(), a.Site.Language())
	return c.JSON(http.StatusOK, a.termSummaries(terms, "/tags/", content.PostsByTag))
}

func (a *App) handleCategory(c echo.Context) error {
	terms := content.UniqueCategories(a.Index.All(), a.visibility(), a.Site.Language())
	return a.termPage(c, c.Param("category"), terms, "/categories/", content.PostsByCategory)
}

func (a *App) handleTag(c echo.Context) error {
	terms := content.UniqueTags(a.Index.All(), a.visibility(), a.Site.Language())
	return a.termPage(c, c.Param("tag"), terms, "/tags/", content.PostsByTag)
}

// termPage lists the posts of one category or tag. A key that is not in
// slug form ("C%23", "Go") redirects to its slug; a key with no posts is an
// empty listing, not an error.
func (a *App) termPage(c echo.Context, raw string, terms []content.Term, base string, match func([]content.Post, string) []content.Post) error {
	key, err := slug.Slugify(raw)
	if err != nil {
		return echo.ErrNotFound
	}
	if key != raw {
		n, _, err := pageParam(c)
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusMovedPermanently, pagePath(base+key+"/", n))
	}

	name := key
	for _, t := range terms {
		if t.Key == key {
			name = t.Name
			break
		}
	}
	return a.listing(c, match(a.visiblePosts(), key), base+key+"/", func(r PageResponse) any {
		return TermPageResponse{Key: key, Name: name, PageResponse: r}
	})
}

func (a *App) handleArchives(c echo.Context) error {
	if !a.Site.ShowArchives {
		return echo.ErrNotFound
	}
	groups := content.Archive(a.visiblePosts())
	years := make([]ArchiveYear, len(groups))
	for i, y := range groups {
		months := make([]ArchiveMonth, len(y.Months))
		for j, m := range y.Months {
			months[j] = ArchiveMonth{
				Month: int(m.Month),
				Name:  m.Month.String(),
				Posts: a.summaries(m.Posts),
			}
		}
		years[i] = ArchiveYear{Year: y.Year, Months: months}
	}
	return c.JSON(http.StatusOK, years)
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.visiblePosts())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.visiblePosts())
}

func (a *App) handleRobots(c echo.Context) error {
	sitemap := strings.TrimRight(a.Site.Website, "/") + "/sitemap.xml"
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+sitemap+"\n")
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Posts:    len(a.Index.All()),
		Visible:  len(a.visiblePosts()),
		LoadedAt: a.Index.LoadedAt(),
	})
}
