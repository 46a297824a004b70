package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskward-dev/taskward/internal/config"
	"github.com/taskward-dev/taskward/internal/logger"
	"github.com/taskward-dev/taskward/internal/setup"
)

func main() {
	configFolder := flag.String("config_folder", "./config", "Path to the folder with public.yaml and private.yaml")
	flag.Parse()

	cfg := config.MustLoad(*configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.Setup(cfg)
	if err != nil {
		logger.Log.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: deps.Router,
	}

	go func() {
		logger.Log.Info("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}

	// Drain queued notifications before the process exits.
	deps.Dispatcher.Stop()
}
