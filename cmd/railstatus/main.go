package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	// Keep Asia/Kolkata resolvable on images without a tzdata package.
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"railstatus/config"
	"railstatus/engine"
	"railstatus/fetch"
	"railstatus/server"
	"railstatus/sources"
	"railstatus/useragent"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", config.EnvString("RAILSTATUS_CONFIG", ""), "Path to YAML configuration file")
	port := flag.Int("port", config.EnvInt("PORT", 0), "HTTP listen port (overrides configuration)")
	verbose := flag.Bool("v", strings.EqualFold(config.EnvString("LOG_LEVEL", ""), "debug"), "Enable verbose logging")
	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		level.Set(slog.LevelDebug)
	}
	slog.SetLogLoggerLevel(level.Level())
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("loading timezone", slog.Any("error", err))
		os.Exit(1)
	}

	agents := useragent.New(cfg.UserAgent.Pool, cfg.UserAgent.Dynamic)
	metrics := engine.NewMetrics()
	retrier := &engine.Retrier{
		MaxAttempts: cfg.Engine.MaxRetries,
		Backoff:     cfg.Engine.RetryBackoff(),
		BackoffMax:  cfg.Engine.RetryBackoffMax(),
		ConnWait:    cfg.Engine.ConnRetryWait(),
		Metrics:     metrics,
	}

	profiles := []sources.Profile{
		sources.NTES(cfg.SourceBaseURL("ntes")),
		sources.RailYatri(cfg.SourceBaseURL("railyatri")),
		sources.ETrain(cfg.SourceBaseURL("etrain")),
	}
	var adapters []engine.SourceAdapter
	for _, profile := range profiles {
		if !cfg.SourceEnabled(profile.Key) {
			slog.Info("source disabled", slog.String("source", profile.Key))
			continue
		}
		client := fetch.NewClient(cfg.Engine.Timeout())
		adapters = append(adapters, sources.New(profile, client, agents, retrier, loc))
	}
	if len(adapters) == 0 {
		slog.Error("no sources enabled")
		os.Exit(1)
	}

	policy := &engine.DatePolicy{Location: loc, Days: cfg.Engine.DateFallbackDays}
	orchestrator := engine.NewOrchestrator(adapters, policy, cfg.Engine.SourceCooldown(), metrics)
	prober := engine.NewProber(adapters, cfg.Server.ProbeTimeout(), cfg.Server.ProbeCacheTTL())

	router := server.NewRouter(orchestrator, prober, metrics)
	srv := server.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting rail status service",
		slog.String("addr", srv.Addr),
		slog.Int("sources", len(adapters)),
		slog.String("timezone", cfg.Engine.Timezone),
		slog.Int("date_fallback_days", cfg.Engine.DateFallbackDays),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	slog.Info("server stopped")
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
