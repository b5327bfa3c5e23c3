package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eringen/pubindex"
	"github.com/eringen/pubindex/content"
	"github.com/eringen/pubindex/slug"
)

func runBuild(args []string) error {
	srv, site, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	fset := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fset.String("out", "dist", "output directory")
	workers := fset.Int("workers", srv.RenderWorkers, "concurrent renders")
	if err := fset.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := pubindex.New(*site, *srv, pubindex.WithLogger(log))
	report, err := app.Prerender(ctx, *out, *workers)
	if err != nil {
		return err
	}
	log.Infow("preview images written", "dir", *out, "written", len(report.Written), "failed", len(report.Failed))
	return report.Err()
}

// runTerms prints the categories or tags of the visible posts with their
// post counts.
func runTerms(_ []string, kind string) error {
	srv, site, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	app := pubindex.New(*site, *srv, pubindex.WithLogger(log))
	if err := app.Prepare(context.Background()); err != nil {
		return err
	}

	vis := content.Visibility{Now: time.Now(), Margin: site.ScheduledPostMargin}
	posts := app.Index.All()
	terms, match := content.UniqueCategories, content.PostsByCategory
	if kind == "tags" {
		terms, match = content.UniqueTags, content.PostsByTag
	}
	visible := content.VisiblePosts(posts, vis)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tPOSTS")
	for _, t := range terms(posts, vis, site.Language()) {
		fmt.Fprintf(w, "%s\t%s\t%d\n", t.Key, t.Name, len(match(visible, t.Key)))
	}
	return w.Flush()
}

// runSlugs slugs its arguments as one batch, or lists the slug of every
// post when called without arguments.
func runSlugs(args []string) error {
	if len(args) > 0 {
		slugs, err := slug.Batch(args)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(slugs, "\n"))
		return nil
	}

	srv, site, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	app := pubindex.New(*site, *srv, pubindex.WithLogger(log))
	if err := app.Prepare(context.Background()); err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tFILE\tSTATUS")
	vis := content.Visibility{Now: time.Now(), Margin: site.ScheduledPostMargin}
	for _, p := range app.Index.All() {
		status := "visible"
		switch {
		case p.Draft:
			status = "draft"
		case !vis.Visible(p):
			status = "scheduled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.ID, status)
	}
	return w.Flush()
}
