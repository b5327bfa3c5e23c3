package pubindex

import (
	"time"

	"github.com/eringen/pubindex/config"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PostSummary is a post as it appears in listings.
type PostSummary struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Author      string     `json:"author"`
	Datetime    time.Time  `json:"datetime"`
	ModDatetime *time.Time `json:"modDatetime,omitempty"`
	Featured    bool       `json:"featured"`
	Categories  []string   `json:"categories"`
	Tags        []string   `json:"tags"`
	URL         string     `json:"url"`
	OGImage     string     `json:"ogImage"` // author-supplied or generated
}

// PostDetail is a single post with its related posts.
type PostDetail struct {
	PostSummary
	EditURL string        `json:"editUrl,omitempty"`
	Related []PostSummary `json:"related"`
}

// PageResponse is one page of a paginated listing.
type PageResponse struct {
	Posts      []PostSummary `json:"posts"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	TotalPosts int           `json:"totalPosts"`
	Prev       string        `json:"prev,omitempty"`
	Next       string        `json:"next,omitempty"`
}

// IndexResponse is the home page listing.
type IndexResponse struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Featured     []PostSummary   `json:"featured"`
	Recent       []PostSummary   `json:"recent"`
	Socials      []config.Social `json:"socials"`
	ShowArchives bool            `json:"showArchives"`
	AllPostsURL  string          `json:"allPostsUrl"`
}

// TermSummary is one category or tag with its visible post count.
type TermSummary struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

// TermPageResponse is one page of the posts in a category or tag.
type TermPageResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	PageResponse
}

// ArchiveMonth is one month of the archive.
type ArchiveMonth struct {
	Month int           `json:"month"`
	Name  string        `json:"name"`
	Posts []PostSummary `json:"posts"`
}

// ArchiveYear is one year of the archive.
type ArchiveYear struct {
	Year   int            `json:"year"`
	Months []ArchiveMonth `json:"months"`
}

// HealthResponse reports the state of the corpus snapshot.
type HealthResponse struct {
	Status   string    `json:"status"`
	Posts    int       `json:"posts"`
	Visible  int       `json:"visible"`
	LoadedAt time.Time `json:"loadedAt"`
}
