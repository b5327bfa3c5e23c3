package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/eringen/pubindex"
)

func runServe(_ []string) error {
	srv, site, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := pubindex.New(*site, *srv, pubindex.WithLogger(log))
	defer app.Close()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start(ctx)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", srv.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
