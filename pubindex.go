// Package pubindex serves a Markdown blog's derived index over HTTP: post
// listings, category and tag taxonomies, archives, feeds, and generated
// social preview images.
//
// Posts are read from files into an immutable snapshot; every request
// filters that snapshot with the configured visibility rule.
package pubindex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/pubindex/config"
	"github.com/eringen/pubindex/content"
	"github.com/eringen/pubindex/ogimage"
)

// App is the central pubindex application. It wires together the post
// index, the preview renderer and image cache, handlers and middleware.
type App struct {
	Site     config.Site
	Server   config.Server
	Echo     *echo.Echo
	Index    *PostIndex
	Renderer *ogimage.Renderer
	Images   ImageCache
	Log      *zap.SugaredLogger

	source       content.Source
	clock        func() time.Time
	imagesSet    bool
	limiter      *RenderLimiter
	renders      singleflight.Group
	scheduler    *Scheduler
	customRoutes []func(*App)
	initialized  bool
}

// New creates a new pubindex App with the given configuration.
func New(site config.Site, srv config.Server, opts ...Option) *App {
	a := &App{
		Site:   site,
		Server: srv,
		Echo:   echo.New(),
		clock:  time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = zap.S()
	}
	if a.source == nil {
		a.source = content.NewLoader(os.DirFS(site.ContentDir), site.Author)
	}
	return a
}

// Branding returns the preview card branding derived from the site config.
func Branding(site config.Site) ogimage.Branding {
	return ogimage.Branding{
		SiteTitle:   site.Title,
		Description: site.Desc,
		Host:        site.Host(),
		Author:      site.Author,
		LogoPath:    site.OG.LogoPath,
		Background:  site.OG.Background,
		Foreground:  site.OG.Foreground,
		Shadow:      site.OG.Shadow,
	}
}

// Init loads the corpus, opens the image cache and registers middleware and
// routes. Start calls it when needed; tests call it directly and drive
// a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Prepare(ctx); err != nil {
		return err
	}

	if !a.imagesSet {
		images, err := OpenImageCache(ctx, a.Server)
		if err != nil {
			return fmt.Errorf("pubindex: init image cache: %w", err)
		}
		a.Images = images
	}

	limit, window := a.Server.RenderLimit, a.Server.RenderWindow
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	a.limiter = NewRenderLimiter(limit, window)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Prepare builds the renderer and loads the corpus. It is all the build
// command needs, and Init calls it first.
func (a *App) Prepare(ctx context.Context) error {
	if a.Index != nil {
		return nil
	}
	renderer, err := ogimage.NewRenderer(Branding(a.Site))
	if err != nil {
		return fmt.Errorf("pubindex: init renderer: %w", err)
	}

	index := NewPostIndex(a.source)
	if err := index.Reload(ctx); err != nil {
		return fmt.Errorf("pubindex: load content: %w", err)
	}
	a.Renderer = renderer
	a.Index = index
	a.Log.Infow("content loaded", "posts", len(index.All()), "dir", a.Site.ContentDir)
	return nil
}

// OpenImageCache builds the image cache selected by srv.Cache. It returns
// nil for "none".
func OpenImageCache(ctx context.Context, srv config.Server) (ImageCache, error) {
	switch srv.Cache {
	case "", "none":
		return nil, nil
	case "sqlite":
		store, err := NewStore(srv.DatabasePath, srv.CacheTTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		rc, err := NewRedisCache(ctx, srv.RedisURL, srv.CachePrefix, srv.CacheTTL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, fmt.Errorf("unknown cache %q", srv.Cache)
}

// Start initializes the app, starts the reload scheduler and serves HTTP
// until Shutdown.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	if err := a.startScheduler(); err != nil {
		return err
	}

	a.Log.Infow("server listening", "addr", a.Server.Addr, "site", a.Site.Website)
	if err := a.Echo.Start(a.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reload re-reads the corpus. On error the previous snapshot keeps serving.
func (a *App) Reload(ctx context.Context) error {
	if err := a.Index.Reload(ctx); err != nil {
		a.Log.Errorw("content reload failed, keeping previous snapshot", "err", err)
		return err
	}
	a.Log.Debugw("content reloaded", "posts", len(a.Index.All()))
	return nil
}

// startScheduler registers the content reload and, for a SQLite cache with
// a ttl, the hourly purge. Without either job no scheduler runs.
func (a *App) startScheduler() error {
	s := NewScheduler(a.Log)
	jobs := 0
	if a.Server.ReloadSchedule != "" {
		if err := s.Every(a.Server.ReloadSchedule, "reload content", a.Reload); err != nil {
			return fmt.Errorf("pubindex: schedule reload: %w", err)
		}
		jobs++
	}
	if store, ok := a.Images.(*Store); ok && a.Server.CacheTTL > 0 {
		if err := s.Every("@hourly", "purge image cache", a.purgeImages(store)); err != nil {
			return fmt.Errorf("pubindex: schedule purge: %w", err)
		}
		jobs++
	}
	if jobs == 0 {
		return nil
	}
	s.Start()
	a.scheduler = s
	return nil
}

func (a *App) purgeImages(store *Store) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := store.Purge(ctx)
		if err != nil {
			return err
		}
		count, size, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		a.Log.Infow("image cache purged", "removed", n, "images", count, "bytes", size)
		return nil
	}
}

// Shutdown stops the scheduler and drains in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	return a.Echo.Shutdown(ctx)
}

// Close releases the image cache. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Images != nil {
		return a.Images.Close()
	}
	return nil
}
