package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intraday-arb/internal/api"
	"intraday-arb/internal/config"
	"intraday-arb/internal/logging"
	"intraday-arb/internal/metrics"
	"intraday-arb/internal/output"
	"intraday-arb/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("INTRADAY_CONFIG"), "Path to YAML/TOML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	results, err := openStore(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer results.Close()

	sinks, err := output.Build(ctx, cfg.Output)
	if err != nil {
		return err
	}
	defer sinks.Close()

	log.Info().
		Str("data_dir", cfg.Server.DataDir).
		Str("preset_dir", cfg.Server.PresetDir).
		Str("store", cfg.Server.Store).
		Int("sinks", len(sinks)).
		Msg("configured")

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Store:   results,
		Metrics: metrics.New(),
		Sink:    sinks,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.ServerConfig) (store.ResultStore, error) {
	switch cfg.Store {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.Redis, cfg.ResultTTL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return store.NewMemoryStore(cfg.ResultTTL, time.Minute), nil
	}
}
