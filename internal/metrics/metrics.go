// Package metrics exposes storage statement counters over a private
// Prometheus registry.
package metrics

import (
	"context"
	"net/http"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genricycle/internal/database"
)

type Service struct {
	registry   *prom.Registry
	statements *prom.CounterVec
}

func NewService() *Service {
	registry := prom.NewRegistry()
	statements := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "genricycle",
		Subsystem: "sql",
		Name:      "statements_total",
		Help:      "Statements sent to the storage engine, by engine and leading SQL verb.",
	}, []string{"engine", "verb"})
	registry.MustRegister(statements)
	return &Service{registry: registry, statements: statements}
}

// Tracer counts every statement issued through a database.Conn.
func (s *Service) Tracer() database.Tracer {
	return func(_ context.Context, engine database.Engine, query string, _ []any) {
		s.statements.WithLabelValues(string(engine), Verb(query)).Inc()
	}
}

// Verb returns the upper-cased first keyword of query.
func Verb(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.TrimLeft(fields[0], "("))
}

func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
