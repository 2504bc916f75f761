// Package main запускает HTTP-сервер сервиса учёта потребления воды.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/hydration-system/internal/config"
	"github.com/mmeshcher/hydration-system/internal/handler"
	"github.com/mmeshcher/hydration-system/internal/middleware"
	"github.com/mmeshcher/hydration-system/internal/repository"
	"github.com/mmeshcher/hydration-system/internal/service"
	"github.com/mmeshcher/hydration-system/internal/weather"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	weatherClient := weather.NewClient(cfg.WeatherAPIAddress, cfg.WeatherAPIKey)
	if !weatherClient.Configured() {
		sugar.Infow("weather service not configured, reminders ignore temperature")
	}

	svc := service.NewService(repo, weatherClient, cfg.WeatherCity, service.NewLogNotifier(logger), logger)
	defer svc.Close()

	if cfg.AuthSecret == "" {
		sugar.Warnw("AUTH_SECRET is empty, identity cookies will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск фоновой рассылки напоминаний
	g.Go(func() error {
		sugar.Infow("starting reminder sweep", "interval", cfg.ReminderInterval.String())
		svc.StartReminderSweep(ctx, cfg.ReminderInterval)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting hydration server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
