package pubindex

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubindex/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	base := a.Site.Website
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "posts", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary(),
			PubDate:     p.Datetime.Format(time.RFC1123Z),
			GUID:        postURL,
			Categories:  p.Categories,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Site.Title,
			Link:        base,
			Description: a.Site.Desc,
			Language:    a.Site.Locale.Lang,
			Items:       items,
		},
	}
	return RenderXML(c, "application/rss+xml; charset=utf-8", feed)
}
