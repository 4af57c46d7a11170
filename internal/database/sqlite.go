package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"genricycle/internal/logger"
	"genricycle/internal/models"

	_ "modernc.org/sqlite" // driver: sqlite
)

// SQLiteBackend stores everything in one file. A connection is opened per
// unit of work and closed with it.
type SQLiteBackend struct {
	path string
	opts options
}

func NewSQLite(path string, opts ...Option) *SQLiteBackend {
	return &SQLiteBackend{path: path, opts: buildOptions(opts)}
}

func (b *SQLiteBackend) Engine() Engine { return EngineSQLite }

func (b *SQLiteBackend) Path() string { return b.path }

// buildDSN opens the file in WAL mode with BEGIN IMMEDIATE transactions, so
// concurrent writers queue on busy_timeout instead of failing to upgrade a
// read lock.
func buildDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		path,
	)
}

func (b *SQLiteBackend) Connect(ctx context.Context) (Conn, error) {
	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ConnectionError{Engine: EngineSQLite, Target: b.path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", buildDSN(b.path))
	if err != nil {
		return nil, &ConnectionError{Engine: EngineSQLite, Target: b.path, Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Engine: EngineSQLite, Target: b.path, Err: err}
	}
	return &sqliteConn{db: db, opts: b.opts}, nil
}

func (b *SQLiteBackend) Bootstrap(ctx context.Context) error {
	conn, err := b.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	logger.Info("Bootstrapping embedded database", "path", b.path)
	return NewBootstrapper(conn, sqliteDialect{}).Run(ctx)
}

func (b *SQLiteBackend) Introspect(ctx context.Context, conn Conn) (*models.Report, error) {
	return introspect(ctx, conn, sqliteDialect{})
}

type sqliteConn struct {
	db   *sql.DB
	tx   *sql.Tx
	opts options
}

func (c *sqliteConn) Engine() Engine { return EngineSQLite }

func (c *sqliteConn) begin(ctx context.Context) (*sql.Tx, error) {
	if c.db == nil {
		return nil, sql.ErrConnDone
	}
	if c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		c.tx = tx
	}
	return c.tx, nil
}

// abort discards the open transaction after a failed statement.
func (c *sqliteConn) abort(query string, err error) error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return newQueryError(query, err)
}

func (c *sqliteConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	c.opts.trace(ctx, EngineSQLite, query, args)
	tx, err := c.begin(ctx)
	if err != nil {
		return 0, newQueryError(query, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, c.abort(query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, c.abort(query, err)
	}
	return n, nil
}

func (c *sqliteConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	c.opts.trace(ctx, EngineSQLite, query, args)
	tx, err := c.begin(ctx)
	if err != nil {
		return nil, newQueryError(query, err)
	}
	result, err := scanRows(ctx, tx, query, args)
	if err != nil {
		return nil, c.abort(query, err)
	}
	return result, nil
}

// scanRows reads the full result set and closes the cursor before returning.
func scanRows(ctx context.Context, tx *sql.Tx, query string, args []any) ([]Row, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result = append(result, newRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *sqliteConn) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (c *sqliteConn) Commit(_ context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit(); err != nil {
		return newQueryError("COMMIT", err)
	}
	return nil
}

func (c *sqliteConn) Rollback(_ context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(); err != nil {
		return newQueryError("ROLLBACK", err)
	}
	return nil
}

func (c *sqliteConn) Close(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	rbErr := c.Rollback(ctx)
	db := c.db
	c.db = nil
	if err := db.Close(); err != nil {
		return err
	}
	return rbErr
}
