package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genricycle/internal/config"
	"genricycle/internal/database"
	"genricycle/internal/logger"
	"genricycle/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.JSON = cfg.Log.JSON
	logger.Init(logCfg)

	srv, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		var schemaErr *database.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("Schema bootstrap failed", "step", schemaErr.Step, "table", schemaErr.Table, "error", schemaErr.Err)
		} else {
			logger.Error("Failed to start server", "error", err)
		}
		os.Exit(1)
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr, "engine", cfg.Database.Engine)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown", "error", err)
	}
	logger.Info("Server exiting")
}
