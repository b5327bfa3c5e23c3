package pubindex

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubindex/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home page, the post listing, every visible post
// and every category and tag page.
func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	base := a.Site.Website
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "posts")},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "posts", p.Slug),
			LastMod: p.Updated().Format("2006-01-02"),
		})
	}
	vis := a.visibility()
	lang := a.Site.Language()
	for _, t := range content.UniqueCategories(posts, vis, lang) {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "categories", t.Key)})
	}
	for _, t := range content.UniqueTags(posts, vis, lang) {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", t.Key)})
	}
	if a.Site.ShowArchives {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "archives")})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return RenderXML(c, "application/xml; charset=utf-8", sitemap)
}
