package pubindex

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/pubindex/config"
)

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler(nopLogger())
	job := func(context.Context) error { return nil }

	if err := s.Every("@every 5m", "reload content", job); err != nil {
		t.Fatalf("Every failed: %v", err)
	}
	if err := s.Every("*/10 * * * *", "purge image cache", job); err != nil {
		t.Fatalf("Every failed: %v", err)
	}
	if err := s.Every("every five minutes", "bad", job); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}

	s.Start()
	s.Stop()
}

func TestStartSchedulerPurgeWithoutReload(t *testing.T) {
	a := newTestApp(t, func(_ *config.Site, srv *config.Server) {
		srv.Cache = "sqlite"
		srv.DatabasePath = filepath.Join(t.TempDir(), "images.db")
		srv.CacheTTL = time.Hour
		srv.ReloadSchedule = ""
	})
	if err := a.startScheduler(); err != nil {
		t.Fatalf("startScheduler failed: %v", err)
	}
	if a.scheduler == nil {
		t.Fatal("expected a scheduler for the purge job")
	}
	defer a.scheduler.Stop()
	if got := len(a.scheduler.cron.Entries()); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
}

func TestStartSchedulerWithoutJobs(t *testing.T) {
	a := newTestApp(t, nil)
	if err := a.startScheduler(); err != nil {
		t.Fatalf("startScheduler failed: %v", err)
	}
	if a.scheduler != nil {
		t.Fatal("expected no scheduler when no job is configured")
	}
}

func TestStartSchedulerInvalidSpec(t *testing.T) {
	a := newTestApp(t, func(_ *config.Site, srv *config.Server) {
		srv.ReloadSchedule = "sometimes"
	})
	if err := a.startScheduler(); err == nil {
		t.Fatal("expected error for invalid reload schedule")
	}
}
