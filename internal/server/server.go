package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"genricycle/internal/config"
	"genricycle/internal/database"
	"genricycle/internal/logger"
	"genricycle/internal/metrics"
	"genricycle/internal/routes"
)

// statementLogger prints every statement at debug level.
func statementLogger(_ context.Context, engine database.Engine, query string, args []any) {
	logger.Debug("SQL", "engine", engine, "query", query, "args", args)
}

// NewServer opens the configured storage engine, brings its schema up to
// date and wires the HTTP routes. A bootstrap failure is returned as a
// *database.SchemaError.
func NewServer(ctx context.Context, cfg *config.Config) (*http.Server, error) {
	metricsService := metrics.NewService()

	opts := []database.Option{database.WithTracer(metricsService.Tracer())}
	if cfg.Server.Development() {
		opts = append(opts, database.WithTracer(statementLogger))
	}

	backend, err := database.Open(cfg.Database, opts...)
	if err != nil {
		return nil, err
	}

	bootCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := backend.Bootstrap(bootCtx); err != nil {
		return nil, err
	}
	logger.Info("Database ready", "engine", backend.Engine())

	router := routes.NewRouter(cfg.Server, backend, metricsService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
