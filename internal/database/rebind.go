package database

import (
	sq "github.com/Masterminds/squirrel"
)

// Rebind rewrites '?' placeholders into the engine's native form.
func Rebind(engine Engine, query string) (string, error) {
	if engine != EnginePostgres {
		return query, nil
	}
	return sq.Dollar.ReplacePlaceholders(query)
}
