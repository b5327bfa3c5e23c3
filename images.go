package pubindex

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubindex/metrics"
	"github.com/eringen/pubindex/ogimage"
)

const mimeImagePNG = "image/png"

func (a *App) handleSiteImage(c echo.Context) error {
	if a.Site.OGImage != "" {
		return c.Redirect(http.StatusFound, a.Site.OGImage)
	}
	return a.servePreview(c, "site", a.Renderer.SiteKey(), a.Renderer.RenderSite)
}

// handlePostImage serves the generated card of a visible post. Posts with
// an author-supplied image have no generated one.
func (a *App) handlePostImage(c echo.Context) error {
	post, err := a.visiblePost(c.Param("slug"))
	if err != nil || post.OGImage != "" {
		return echo.ErrNotFound
	}
	in := ogimage.PostInput{Title: post.Title, Author: post.Author}
	return a.servePreview(c, "post", a.Renderer.PostKey(in), func() ([]byte, error) {
		return a.Renderer.RenderPost(in)
	})
}

// servePreview answers from the image cache when possible. Cache misses are
// rate limited per client and rendered once per key however many requests
// wait on it. Failed renders are never cached.
func (a *App) servePreview(c echo.Context, kind, key string, render func() ([]byte, error)) error {
	ctx := c.Request().Context()
	if data, ok := a.cachedImage(ctx, key); ok {
		return c.Blob(http.StatusOK, mimeImagePNG, data)
	}
	if !a.limiter.Allow(c.RealIP()) {
		metrics.RateLimitedTotal.Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many preview image renders")
	}
	data, err := a.renderImage(ctx, kind, key, render)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "preview image could not be rendered").SetInternal(err)
	}
	return c.Blob(http.StatusOK, mimeImagePNG, data)
}

func (a *App) cachedImage(ctx context.Context, key string) ([]byte, bool) {
	if a.Images == nil {
		return nil, false
	}
	data, err := a.Images.Get(ctx, key)
	switch {
	case err == nil:
		metrics.ImageCacheTotal.WithLabelValues("hit").Inc()
		return data, true
	case errors.Is(err, ErrCacheMiss):
		metrics.ImageCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.ImageCacheTotal.WithLabelValues("error").Inc()
		a.Log.Warnw("image cache read failed", "key", key, "err", err)
	}
	return nil, false
}

// renderImage renders and caches one image. Concurrent calls for the same
// key share a single render.
func (a *App) renderImage(ctx context.Context, kind, key string, render func() ([]byte, error)) ([]byte, error) {
	v, err, _ := a.renders.Do(key, func() (any, error) {
		start := time.Now()
		data, err := render()
		metrics.ImageRenderSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ImageRenderTotal.WithLabelValues(kind, "error").Inc()
			return nil, err
		}
		metrics.ImageRenderTotal.WithLabelValues(kind, "ok").Inc()

		if a.Images != nil {
			if err := a.Images.Set(context.WithoutCancel(ctx), key, data); err != nil {
				a.Log.Warnw("image cache write failed", "key", key, "err", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
