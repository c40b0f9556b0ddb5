package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"document-qa-server/internal/config"
	"document-qa-server/internal/handler"
	"document-qa-server/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wiring
	container := config.NewContainer(ctx)
	cfg := container.GetConfig()
	appLogger := container.GetLogger()
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Error("Failed to close model client", err)
		}
	}()

	askHandler := handler.NewAskHandler(
		container.QAService,
		cfg.GetMaxFileSize(),
		appLogger,
	)

	router := handler.NewRouter(askHandler, appLogger, cfg.GetAllowedOrigins())

	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if slogger, ok := appLogger.(*logger.AppLogger); ok {
		server.ErrorLog = slog.NewLogLogger(slogger.Slog().Handler(), slog.LevelError)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", err)
		os.Exit(1)
	}

	appLogger.Info("Server exited")
}
