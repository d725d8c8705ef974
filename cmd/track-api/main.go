package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flybeeper/track-analyzer/internal/analysis"
	"github.com/flybeeper/track-analyzer/internal/config"
	"github.com/flybeeper/track-analyzer/internal/handler"
	"github.com/flybeeper/track-analyzer/internal/metrics"
	"github.com/flybeeper/track-analyzer/pkg/utils"
)

var (
	// Version, Commit и BuildTime устанавливаются при сборке через ldflags
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем логирование
	logger := utils.NewLogger(config.LogLevel(), config.LogFormat())
	utils.SetDefaultLogger(logger)
	logger.WithField("version", Version).Info("Starting track analyzer API")

	metrics.SetAppInfo(Version, Commit, BuildTime)

	analyzer := analysis.NewAnalyzer(cfg.Analysis.AnalyzerConfig(), logger)
	server := handler.NewServer(cfg, analyzer, logger)

	// Запускаем HTTP сервер в горутине
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Ждем сигнала остановки
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}

	logger.Info("Track analyzer API stopped")
}
