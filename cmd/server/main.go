package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Simplici0/partnerdesk/internal/config"
	"github.com/Simplici0/partnerdesk/internal/db"
	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/material"
	"github.com/Simplici0/partnerdesk/internal/metrics"
	"github.com/Simplici0/partnerdesk/internal/migrations"
	"github.com/Simplici0/partnerdesk/internal/partners"
	"github.com/Simplici0/partnerdesk/internal/reference"
	"github.com/Simplici0/partnerdesk/internal/seed"
)

const serviceName = "partnerdesk"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.AutoMigrate {
		migrations.SetLogger(logg)
		if err := migrations.Up(ctx, database); err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
		version, err := migrations.Version(database)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		logg.Info(logg.WithField(ctx, "schema_version", version), "migrations applied")
	}

	if cfg.Seed {
		stats, err := seed.Run(ctx, database, seed.Config{DemoPartners: cfg.SeedDemo})
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		logg.Info(logg.WithField(ctx, "inserts", stats.Inserts), "seed completed")
	}

	rounding, err := material.ParseRounding(cfg.Rounding)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	catalog := reference.NewSQLStore(database)
	srv := &server{
		log:      logg,
		catalog:  catalog,
		calc:     material.NewCalculator(catalog, material.WithRounding(rounding), material.WithObserver(m)),
		partners: partners.NewRepository(database),
		metrics:  m,
		gatherer: registry,
		health:   database.PingContext,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": httpServer.Addr, "env": cfg.Env, "rounding": rounding.String()}), "listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logg.Info(shutdownCtx, "shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
