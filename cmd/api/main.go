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

	"repradar-go/internal/config"
	"repradar-go/internal/logger"
	"repradar-go/internal/processor"
	"repradar-go/internal/provider"
	"repradar-go/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("REPRADAR_CONFIG"))
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}

	log := logger.NewWithOptions(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "repradar").WithField("model", cfg.Model).Info("starting service")
	if cfg.APIKey == "" {
		log.Warn("no default API key configured, requests must send api_key")
	}

	proc := processor.New(cfg, provider.NewHTTPClient(), log)
	handler := server.New(cfg, proc, log).Handler()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 60 * time.Second,
		// a single analysis makes five sequential provider calls
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server stopped")
}
