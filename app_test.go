package pubindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eringen/pubindex/config"
	"github.com/eringen/pubindex/content"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// staticSource serves a fixed corpus, or an error.
type staticSource struct {
	mu    sync.Mutex
	posts []content.Post
	err   error
	loads int
}

func (s *staticSource) Load(ctx context.Context) ([]content.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return content.AssignSlugs(s.posts)
}

func (s *staticSource) set(posts []content.Post, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts, s.err = posts, err
}

// memCache is an in-memory ImageCache that counts its calls.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	d, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return d, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

func (m *memCache) Close() error { return nil }

func (m *memCache) counts() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.sets
}

func testDay(n int) time.Time {
	return time.Date(2024, 5, n, 9, 0, 0, 0, time.UTC)
}

func testCorpus() []content.Post {
	return []content.Post{
		{ID: "hello.md", Title: "Hello World", Author: "Ada", Datetime: testDay(20), Categories: []string{"Go", "C#"}, Tags: []string{"intro"}, Description: "First post"},
		{ID: "second.md", Title: "Second", Datetime: testDay(10), Categories: []string{"go"}},
		{ID: "draft.md", Title: "Draft", Datetime: testDay(25), Draft: true, Categories: []string{"Secret"}},
		{ID: "future.md", Title: "Future", Datetime: testDay(1), ScheduledDate: testNow.Add(24 * time.Hour)},
		{ID: "image.md", Title: "With Image", Datetime: testDay(5), OGImage: "https://cdn.example.com/card.png"},
		{ID: "cjk.md", Title: "你好", Datetime: testDay(2)},
	}
}

type testApp struct {
	*App
	source *staticSource
}

func newTestApp(t *testing.T, configure func(*config.Site, *config.Server), opts ...Option) *testApp {
	t.Helper()
	site := config.DefaultSite()
	site.Website = "https://example.com/"
	site.Title = "Example"
	site.Author = "Site Author"
	site.Desc = "Notes"
	site.PostPerPage = 2
	srv := config.Server{
		Addr:         ":0",
		Cache:        "none",
		RenderLimit:  100,
		RenderWindow: time.Minute,
	}
	if configure != nil {
		configure(&site, &srv)
	}

	src := &staticSource{posts: testCorpus()}
	opts = append([]Option{
		WithSource(src),
		WithClock(func() time.Time { return testNow }),
		WithLogger(zap.NewNop().Sugar()),
	}, opts...)
	a := New(site, srv, opts...)
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return &testApp{App: a, source: src}
}

func (a *testApp) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.7:4321"
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func summarySlugs(posts []PostSummary) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
