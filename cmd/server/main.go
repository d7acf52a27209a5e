package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/detective-verifier/internal/config"
	apperrors "github.com/ZanzyTHEbar/detective-verifier/internal/errors"
	"github.com/ZanzyTHEbar/detective-verifier/internal/monitoring"
	"github.com/ZanzyTHEbar/detective-verifier/internal/ratelimit"
	"github.com/ZanzyTHEbar/detective-verifier/internal/server"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		monitoring.NewLogger(monitoring.ParseLevel("info")).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger.Logger)
	gin.SetMode(cfg.GinMode)

	redisClient, err := ratelimit.NewRedisClient(context.Background(), ratelimit.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")

	srv, err := server.New(cfg, logger, redisClient)
	if err != nil {
		logger.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	logger.SystemLogger("startup", "thresholds="+thresholdSummary(cfg))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func thresholdSummary(cfg *config.Config) string {
	t := cfg.Verifier.Thresholds
	return fmt.Sprintf("accuracy>%d latency=(%d,%d) overflow=%s ratio=%s",
		t.MinAccuracyPercent, t.MinLatencyMs, t.MaxLatencyMs, cfg.Verifier.Overflow, cfg.Verifier.Ratio)
}
