package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/router"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: without it there is no price cache, settlement lock
	// or receipt generation, but sales keep working.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache and workers")
			rdb = nil
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	var encolador service.EncoladorLiquidaciones
	var pool *worker.Pool
	if rdb != nil {
		cola := worker.NewRedisCola(rdb)
		dispatcher := worker.NewDispatcher(cola)
		encolador = dispatcher

		smtpCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Nombre: "smtp"})
		mailer := infra.NewMailer(cfg, smtpCB)

		pool = worker.NewPool(cola, map[string]worker.Procesador{
			worker.QueueLiquidacion: worker.NewLiquidacionWorker(repository.NewLiquidacionRepository(db), dispatcher, cfg.ReceiptStoragePath, cfg.NombreComercio),
			worker.QueueEmail:       worker.NewEmailWorker(mailer),
		}, metrics.NewJobs(reg))
		pool.Start(ctx, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{Cola: cola, CB: smtpCB, Queue: worker.QueueEmail})
	}

	r := router.New(cfg, db, rdb, reg, encolador)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Bool("demo", cfg.DemoMode).Msgf("pet shop backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
