package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/artikel/pkg/api"
	"github.com/hazyhaar/artikel/pkg/chassis"
	"github.com/hazyhaar/artikel/pkg/importer"
	"github.com/hazyhaar/artikel/pkg/lexicon"
	"github.com/hazyhaar/artikel/pkg/lookup"
	"github.com/mark3labs/mcp-go/server"
)

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	reg := loadRegistry(cfg, logger)

	remote, closeRemote := openRemote(cfg, logger)
	defer closeRemote()

	res := api.NewResolver(reg, remote, logger)
	mcpSrv := api.NewMCPServer(res, version, logger)

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", api.NewRouter(res, logger))

	// SIGHUP: reload lexicons. SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading lexicons")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			logger.Info("lexicons reloaded", "count", reg.LexiconCount(), "entries", reg.TotalEntries())
		}
	}()

	if cfg.CheckInterval > 0 {
		startChecker(ctx, cfg, logger)
	}

	if cfg.TLS.Enabled {
		serveTLS(ctx, cfg, mux, mcpSrv, logger)
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("artikel listening", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func serveTLS(ctx context.Context, cfg config, h http.Handler, mcpSrv *server.MCPServer, logger *slog.Logger) {
	ch, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.TLS.Cert,
		KeyFile:   cfg.TLS.Key,
		Handler:   h,
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		fatal(logger, "chassis setup failed", err)
	}
	if err := ch.Start(ctx); err != nil {
		logger.Error("chassis error", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ch.Stop(shutdownCtx)
}

// setup loads the config and builds the logger it names.
func setup(path string) (config, *slog.Logger) {
	cfg, found, err := loadConfig(path)
	if err != nil {
		fatal(newLogger("info"), "load config", err)
	}
	logger := newLogger(cfg.LogLevel)
	if !found {
		logger.Info("no config file, using defaults", "path", path)
	}
	return cfg, logger
}

func loadRegistry(cfg config, logger *slog.Logger) *lexicon.Registry {
	reg := lexicon.NewRegistry(cfg.LexiconsDir)
	if err := reg.Load(); err != nil {
		fatal(logger, "failed to load lexicons", err)
	}
	logger.Info("lexicons loaded", "dir", cfg.LexiconsDir, "count", reg.LexiconCount(), "entries", reg.TotalEntries())
	return reg
}

// openRemote returns the cached Wiktionary source, or nil when remote
// lookups are disabled.
func openRemote(cfg config, logger *slog.Logger) (lookup.Source, func()) {
	if !cfg.Remote.Enabled {
		return nil, func() {}
	}
	cache, err := lookup.OpenCache(lookup.NewWiktionary(logger), cfg.Remote.CachePath, cfg.Remote.CacheSize, cfg.Remote.TTL, logger)
	if err != nil {
		fatal(logger, "open lookup cache", err)
	}
	logger.Info("remote lookup enabled", "cache", cfg.Remote.CachePath, "ttl", cfg.Remote.TTL)
	return cache, func() { cache.Close() }
}

// startChecker checks import source URLs in the background. Failures to
// open the source DB only disable the checker.
func startChecker(ctx context.Context, cfg config, logger *slog.Logger) {
	if err := os.MkdirAll(cfg.LexiconsDir, 0o755); err != nil {
		logger.Warn("source checker disabled", "error", err)
		return
	}
	sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
	if err != nil {
		logger.Warn("source checker disabled", "error", err)
		return
	}
	if err := sdb.Seed(importer.All()); err != nil {
		logger.Warn("seed sources failed", "error", err)
	}
	go func() {
		defer sdb.Close()
		importer.NewChecker(sdb, logger, cfg.CheckInterval).Start(ctx)
	}()
}
