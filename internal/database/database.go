// Package database is the storage layer shared by every route handler. It
// hides whether the backing store is an embedded SQLite file or a PostgreSQL
// server behind one Backend/Conn contract.
package database

import (
	"context"
	"fmt"

	"genricycle/internal/config"
	"genricycle/internal/models"
)

type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EnginePostgres Engine = "postgres"
)

// Conn is one live connection. Statements use '?' placeholders on every
// engine. The first statement opens a transaction which stays open until
// Commit or Rollback; Close discards anything uncommitted. A statement that
// fails rolls the open transaction back on every engine, so the connection
// stays usable and the next statement starts a fresh transaction.
type Conn interface {
	Engine() Engine
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	QueryRow(ctx context.Context, query string, args ...any) (Row, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend is implemented once per engine.
type Backend interface {
	Engine() Engine
	Connect(ctx context.Context) (Conn, error)
	Bootstrap(ctx context.Context) error
	Introspect(ctx context.Context, conn Conn) (*models.Report, error)
}

// Tracer observes every statement before it is sent to the engine.
type Tracer func(ctx context.Context, engine Engine, query string, args []any)

type options struct {
	tracers []Tracer
}

type Option func(*options)

// WithTracer registers a statement observer. It may be given more than once.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracers = append(o.tracers, t)
		}
	}
}

func (o options) trace(ctx context.Context, engine Engine, query string, args []any) {
	for _, t := range o.tracers {
		t(ctx, engine, query, args)
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open returns the backend selected by cfg.Engine.
func Open(cfg config.DatabaseConfig, opts ...Option) (Backend, error) {
	switch Engine(cfg.Engine) {
	case EngineSQLite:
		return NewSQLite(cfg.SQLitePath(), opts...), nil
	case EnginePostgres:
		return NewPostgres(PostgresConfig{
			Host:           cfg.Host,
			Port:           cfg.Port,
			User:           cfg.User,
			Password:       cfg.Password,
			Database:       cfg.Name,
			AdminDatabase:  cfg.AdminDatabase,
			ConnectTimeout: cfg.ConnectTimeout,
		}, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported database engine %q", cfg.Engine)
	}
}
