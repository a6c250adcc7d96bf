package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/entl/membox/internal/config"
	"github.com/entl/membox/internal/logging"
	"github.com/entl/membox/internal/memory"
	"github.com/entl/membox/internal/server"
	"github.com/entl/membox/internal/storage"
)

// version and build are injected at link time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.build=$(git rev-parse --short HEAD)"
var (
	version = "dev"
	build   = "unknown"
)

func main() {
	addr := flag.String("addr", ":7377", "address to listen on")
	logLevel := flag.String("log-level", "info", "minimum log level")
	flag.Parse()

	logging.Init(logging.Config{Level: logging.ParseLevel(*logLevel)})

	// --- Storage & memory service -----------------------------------------
	// Store the DB in ~/.membox/ so it persists across restarts.
	dir, err := config.Dir()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to resolve membox directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		logging.Fatal().Err(err).Msg("failed to create membox directory")
	}
	db, err := storage.NewDB(filepath.Join(dir, "membox.db"))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open command database")
	}
	svc := memory.NewService(db)

	srv := &http.Server{
		Addr:    *addr,
		Handler: server.New(svc, version, build).Router(),
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logging.Info().Str("addr", *addr).Str("version", version).Msg("membox backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	<-quit
	logging.Info().Msg("shutting down membox backend")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("http server shutdown error")
	}
	if err := svc.Close(); err != nil {
		logging.Error().Err(err).Msg("memory service close error")
	}
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("db close error")
	}
	logging.Info().Msg("membox backend stopped")
}
