// Package main - Entry point for the landed-cost HTTP server
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"landed-cost/api"
	"landed-cost/core/engine"
	"landed-cost/core/rates"
	"landed-cost/internal/config"
	"landed-cost/internal/logging"
	"landed-cost/internal/metrics"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file (JSON)")
	addr := flag.String("addr", "", "server address (overrides the config)")
	ratesPath := flag.String("rates", "", "rates file (overrides the config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *ratesPath != "" {
		cfg.Rates.Path = *ratesPath
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := serve(cfg); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	provider := rates.NewProvider(cfg.Rates.Path, m)
	if err := provider.LastError(); err != nil {
		logging.Warn("serving built-in rates", zap.String("path", cfg.Rates.Path), zap.Error(err))
	}

	handler := api.NewServer(api.Deps{
		Engine:   engine.New(provider, m, cfg.Calculation.EngineOptions()),
		Rates:    provider,
		Metrics:  m,
		Gatherer: reg,
		Defaults: cfg.Calculation.Request(),
		Version:  version,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("landed-cost server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.String("rates_source", string(provider.Source())),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
