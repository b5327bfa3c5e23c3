package pubindex

import (
	"time"

	"go.uber.org/zap"

	"github.com/eringen/pubindex/content"
)

// Option configures additional App behavior.
type Option func(*App)

// WithSource replaces the default loader, which reads Site.ContentDir.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithClock sets the clock used to decide post visibility (default
// time.Now).
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.clock = now
	}
}

// WithImageCache sets the preview image cache instead of building one from
// the server config. A nil cache disables caching.
func WithImageCache(c ImageCache) Option {
	return func(a *App) {
		a.Images = c
		a.imagesSet = true
	}
}

// WithLogger sets the logger (default zap.S()).
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *App) {
		a.Log = log
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
