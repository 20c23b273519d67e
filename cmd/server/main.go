package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"cyclewatch/internal/clients/yahoo"
	"cyclewatch/internal/config"
	"cyclewatch/internal/scheduler"
	"cyclewatch/internal/server"
	"cyclewatch/internal/services"
	"cyclewatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting cyclewatch")

	params, err := config.LoadParams(cfg.ParamsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ParamsPath).Msg("Failed to load engine parameters")
	}

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if err := registerJobs(sched, cfg, params, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Params:  params,
		DevMode: cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, params config.Params, log zerolog.Logger) error {
	if len(cfg.Watchlist) == 0 {
		log.Info().Msg("No watchlist configured, skipping refresh job")
		return nil
	}

	job := scheduler.NewWatchlistJob(
		cfg.Watchlist,
		yahoo.NewClient(log),
		services.NewAnalysisService(params, log),
		scheduler.NewMarketHoursService(log),
		log,
	)

	// Refresh after the US close, Monday through Friday
	return sched.AddJob("0 30 16 * * MON-FRI", job)
}
