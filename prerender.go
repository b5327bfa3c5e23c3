package pubindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubindex/content"
	"github.com/eringen/pubindex/ogimage"
)

// PrerenderFailure is one image that could not be written.
type PrerenderFailure struct {
	Path string
	Err  error
}

// PrerenderReport lists the files written by Prerender and the ones that
// failed.
type PrerenderReport struct {
	Written []string
	Failed  []PrerenderFailure
}

// Err joins the failures, or returns nil.
func (r PrerenderReport) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("%s: %w", f.Path, f.Err)
	}
	return errors.Join(errs...)
}

// Prerender writes the site card and the card of every post that needs a
// generated image under outDir, mirroring the HTTP paths. At most workers
// images render at once. A failing image does not stop the others; only
// cancellation of ctx does.
func (a *App) Prerender(ctx context.Context, outDir string, workers int) (PrerenderReport, error) {
	if err := a.Prepare(ctx); err != nil {
		return PrerenderReport{}, err
	}
	if workers < 1 {
		workers = 1
	}

	type job struct {
		path   string
		render func() ([]byte, error)
	}
	jobs := []job{{path: "og.png", render: a.Renderer.RenderSite}}
	for _, p := range content.NeedsPreviewImage(a.Index.All(), a.visibility()) {
		in := ogimage.PostInput{Title: p.Title, Author: p.Author}
		jobs = append(jobs, job{
			path:   filepath.Join("posts", p.Slug, "index.png"),
			render: func() ([]byte, error) { return a.Renderer.RenderPost(in) },
		})
	}

	var (
		mu     sync.Mutex
		report PrerenderReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := writeImage(filepath.Join(outDir, j.path), j.render)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.Log.Warnw("prerender failed", "path", j.path, "err", err)
				report.Failed = append(report.Failed, PrerenderFailure{Path: j.path, Err: err})
				return nil
			}
			report.Written = append(report.Written, j.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func writeImage(path string, render func() ([]byte, error)) error {
	data, err := render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
