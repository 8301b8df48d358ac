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

	catHnd "ratematch-service/internal/catalog/handler"
	"ratematch-service/internal/catalog/service"
	"ratematch-service/internal/config"
	serverhttp "ratematch-service/server/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	matcher := service.NewMatcher(cfg.MatchThreshold)
	seeder := service.NewSeeder(matcher, cfg.SeedFile, cfg.SampleFile)
	// сервер стартует и с пустым списком: /load без тела повторит попытку
	if n, err := seeder.Seed(); err != nil {
		logger.Error().Err(err).Str("file", cfg.SeedFile).Msg("seed failed, starting empty")
	} else {
		logger.Info().Int("items", n).Str("file", cfg.SeedFile).Msg("seed loaded")
	}

	h := catHnd.New(matcher, seeder, logger, cfg.MaxUploadMB)
	r := serverhttp.NewRouter(cfg, logger, h)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().
		Str("addr", cfg.Addr()).
		Float64("threshold", matcher.Threshold()).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}
