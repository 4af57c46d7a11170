package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNoRows is returned by QueryRow when the statement yields nothing.
var ErrNoRows = errors.New("no rows in result set")

// ConnectionError means the engine could not be reached or its storage could
// not be prepared.
type ConnectionError struct {
	Engine Engine
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: failed to connect to %s: %v", e.Engine, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

type QueryErrorKind string

const (
	KindUnique     QueryErrorKind = "unique"
	KindForeignKey QueryErrorKind = "foreign_key"
	KindNotNull    QueryErrorKind = "not_null"
	KindOther      QueryErrorKind = "other"
)

// QueryError wraps an engine error raised by a statement.
type QueryError struct {
	Kind  QueryErrorKind
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed (%s): %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SchemaError aborts bootstrap.
type SchemaError struct {
	Step  string
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("bootstrap %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("bootstrap %s failed on %s: %v", e.Step, e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func IsUniqueViolation(err error) bool {
	return queryErrorKind(err) == KindUnique
}

func IsForeignKeyViolation(err error) bool {
	return queryErrorKind(err) == KindForeignKey
}

func queryErrorKind(err error) QueryErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

func newQueryError(query string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Kind: classify(err), Query: query, Err: err}
}

// Postgres SQLSTATE codes used for classification.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgDuplicateTable      = "42P07"
	pgDuplicateColumn     = "42701"
	pgDuplicateObject     = "42710"
	pgDuplicateDatabase   = "42P04"
	pgUndefinedDatabase   = "3D000"

	// concurrent CREATE TABLE IF NOT EXISTS can lose the race on the row type
	pgTypeNameIndex = "pg_type_typname_nsp_index"
)

func classify(err error) QueryErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return KindUnique
		case pgForeignKeyViolation:
			return KindForeignKey
		case pgNotNullViolation:
			return KindNotNull
		}
		return KindOther
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return KindUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return KindForeignKey
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return KindNotNull
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return KindUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return KindForeignKey
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return KindNotNull
	}
	return KindOther
}

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
