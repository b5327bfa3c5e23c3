package content

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{Slug: fmt.Sprintf("p%d", i+1)}
	}
	return posts
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		perPage   int
		wantSlugs []string
		wantPages int
	}{
		{"first page", 10, 1, 4, []string{"p1", "p2", "p3", "p4"}, 3},
		{"middle page", 10, 2, 4, []string{"p5", "p6", "p7", "p8"}, 3},
		{"last partial page", 10, 3, 4, []string{"p9", "p10"}, 3},
		{"exact fit", 8, 2, 4, []string{"p5", "p6", "p7", "p8"}, 2},
		{"empty listing", 0, 1, 4, []string{}, 1},
		{"zero per page", 2, 2, 0, []string{"p2"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate(numbered(tt.total), tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlugs, slugs(page.Posts))
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.total, page.TotalPosts)
			assert.Equal(t, tt.page, page.Number)
		})
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	posts := numbered(5)
	for _, page := range []int{0, -1, 3} {
		_, err := Paginate(posts, page, 4)
		assert.True(t, errors.Is(err, ErrPageOutOfRange), "page %d", page)
	}
}

func TestPageNavigation(t *testing.T) {
	page, err := Paginate(numbered(9), 2, 4)
	require.NoError(t, err)
	assert.True(t, page.HasPrev())
	assert.True(t, page.HasNext())

	page, err = Paginate(numbered(9), 3, 4)
	require.NoError(t, err)
	assert.False(t, page.HasNext())
}

func TestArchive(t *testing.T) {
	posts := []Post{
		{Slug: "jan23", Datetime: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Slug: "mar24-late", Datetime: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		{Slug: "dec23", Datetime: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "mar24-early", Datetime: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Slug: "jan24", Datetime: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	got := Archive(posts)
	require.Len(t, got, 2)

	assert.Equal(t, 2024, got[0].Year)
	require.Len(t, got[0].Months, 2)
	assert.Equal(t, time.March, got[0].Months[0].Month)
	assert.Equal(t, []string{"mar24-late", "mar24-early"}, slugs(got[0].Months[0].Posts))
	assert.Equal(t, time.January, got[0].Months[1].Month)

	assert.Equal(t, 2023, got[1].Year)
	require.Len(t, got[1].Months, 2)
	assert.Equal(t, time.December, got[1].Months[0].Month)
	assert.Equal(t, []string{"jan23"}, slugs(got[1].Months[1].Posts))

	assert.Equal(t, "jan23", posts[0].Slug, "input must not be reordered")
}
