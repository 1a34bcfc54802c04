package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "club-event-approval/internal/adapter/http"
	mysqlrepo "club-event-approval/internal/adapter/repository/mysql"
	"club-event-approval/internal/infrastructure/cache"
	"club-event-approval/internal/infrastructure/metrics"
	advuc "club-event-approval/internal/usecase/advisor"
	appuc "club-event-approval/internal/usecase/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveRun(ctx)
		},
	}
}

func serveRun(ctx context.Context) error {
	cfg, logger, err := commonRun()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gdb, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.AutoMigrate {
		if err := mysqlrepo.AutoMigrate(gdb); err != nil {
			return err
		}
		logger.Info("schema migrated", "driver", cfg.DBDriver)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflow := metrics.NewWorkflow(reg)

	applications := mysqlrepo.NewApplicationRepository(gdb)
	assignments := mysqlrepo.NewAssignmentRepository(gdb)
	tx := mysqlrepo.NewGormUoW(gdb)

	routerCfg := httpadp.RouterConfig{
		Applications:   httpadp.NewApplicationHandler(appuc.NewUsecase(applications, tx, workflow, logger)),
		Advisors:       httpadp.NewAdvisorHandler(advuc.NewUsecase(assignments, tx, workflow, logger)),
		Health:         httpadp.NewHandler(),
		JWTSecret:      []byte(cfg.JWTSecret),
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:         logger,
	}
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		routerCfg.Redis = rdb
	} else {
		logger.Warn("REDIS_ADDR empty, request replay disabled")
	}

	e := httpadp.NewRouter(routerCfg)

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
