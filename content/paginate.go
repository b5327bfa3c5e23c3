package content

import (
	"errors"
	"time"
)

// ErrPageOutOfRange is returned for a page number outside [1, TotalPages].
var ErrPageOutOfRange = errors.New("content: page out of range")

// Page is one page of a listing.
type Page struct {
	Posts      []Post
	Number     int // 1-based
	TotalPages int
	TotalPosts int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate returns page number page of posts, perPage at a time. An empty
// listing has a single empty page. perPage < 1 is treated as 1.
func Paginate(posts []Post, page, perPage int) (Page, error) {
	if perPage < 1 {
		perPage = 1
	}
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	if page < 1 || page > total {
		return Page{}, ErrPageOutOfRange
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(posts))
	return Page{
		Posts:      posts[start:end],
		Number:     page,
		TotalPages: total,
		TotalPosts: len(posts),
	}, nil
}

// MonthGroup holds the posts of one month.
type MonthGroup struct {
	Month time.Month
	Posts []Post
}

// YearGroup holds the posts of one year, by month.
type YearGroup struct {
	Year   int
	Months []MonthGroup
}

// Archive groups posts by year and month of Datetime, newest first.
// Within a month, posts keep the order of SortByDate.
func Archive(posts []Post) []YearGroup {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	SortByDate(sorted)

	var years []YearGroup
	for _, p := range sorted {
		y, m := p.Datetime.Year(), p.Datetime.Month()
		if n := len(years); n == 0 || years[n-1].Year != y {
			years = append(years, YearGroup{Year: y})
		}
		yg := &years[len(years)-1]
		if n := len(yg.Months); n == 0 || yg.Months[n-1].Month != m {
			yg.Months = append(yg.Months, MonthGroup{Month: m})
		}
		mg := &yg.Months[len(yg.Months)-1]
		mg.Posts = append(mg.Posts, p)
	}
	return years
}
