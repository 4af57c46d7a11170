package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"

	"genricycle/internal/logger"
	"genricycle/internal/models"
)

type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	AdminDatabase  string
	ConnectTimeout time.Duration
}

// connString builds a postgres:// URL for the given database name.
func (c PostgresConfig) connString(database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redacted is the connection target safe to log.
func (c PostgresConfig) redacted(database string) string {
	return fmt.Sprintf("postgres://%s:***@%s:%d/%s", c.User, c.Host, c.Port, database)
}

// pgxConn is the subset of *pgx.Conn the backend relies on.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

type connectFunc func(ctx context.Context, connString string) (pgxConn, error)

func pgxConnect(ctx context.Context, connString string) (pgxConn, error) {
	return pgx.Connect(ctx, connString)
}

type PostgresBackend struct {
	cfg          PostgresConfig
	opts         options
	connect      connectFunc
	retryBackoff time.Duration
}

func NewPostgres(cfg PostgresConfig, opts ...Option) *PostgresBackend {
	if cfg.AdminDatabase == "" {
		cfg.AdminDatabase = "postgres"
	}
	return &PostgresBackend{
		cfg:          cfg,
		opts:         buildOptions(opts),
		connect:      pgxConnect,
		retryBackoff: 250 * time.Millisecond,
	}
}

func (b *PostgresBackend) Engine() Engine { return EnginePostgres }

// Connect opens a connection to the target database. A missing database is
// created first. Any failure gets exactly one reconnect attempt.
func (b *PostgresBackend) Connect(ctx context.Context) (Conn, error) {
	var conn pgxConn
	backoff := retry.WithMaxRetries(1, retry.NewConstant(b.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := b.connect(ctx, b.cfg.connString(b.cfg.Database))
		if err == nil {
			conn = c
			return nil
		}
		if code, _ := pgCode(err); code == pgUndefinedDatabase {
			logger.Warn("Target database missing, creating it", "database", b.cfg.Database)
			if err := b.EnsureDatabase(ctx); err != nil {
				return err
			}
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return nil, connErr
		}
		return nil, &ConnectionError{Engine: EnginePostgres, Target: b.cfg.redacted(b.cfg.Database), Err: err}
	}
	return &postgresConn{conn: conn, opts: b.opts}, nil
}

// EnsureDatabase connects to the maintenance database and creates the target
// database when it does not exist yet.
func (b *PostgresBackend) EnsureDatabase(ctx context.Context) error {
	admin, err := b.connect(ctx, b.cfg.connString(b.cfg.AdminDatabase))
	if err != nil {
		return &ConnectionError{Engine: EnginePostgres, Target: b.cfg.redacted(b.cfg.AdminDatabase), Err: err}
	}
	defer admin.Close(ctx)

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := admin.QueryRow(ctx, query, b.cfg.Database).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	// CREATE DATABASE cannot run inside a transaction block
	createQuery := "CREATE DATABASE " + pgx.Identifier{b.cfg.Database}.Sanitize()
	if _, err := admin.Exec(ctx, createQuery); err != nil {
		if code, _ := pgCode(err); code == pgDuplicateDatabase {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	logger.Info("Database created", "database", b.cfg.Database)
	return nil
}

func (b *PostgresBackend) Bootstrap(ctx context.Context) error {
	if err := b.EnsureDatabase(ctx); err != nil {
		return &SchemaError{Step: "ensure_database", Err: err}
	}
	conn, err := b.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	logger.Info("Bootstrapping postgres database", "target", b.cfg.redacted(b.cfg.Database))
	return NewBootstrapper(conn, postgresDialect{}).Run(ctx)
}

func (b *PostgresBackend) Introspect(ctx context.Context, conn Conn) (*models.Report, error) {
	return introspect(ctx, conn, postgresDialect{})
}

type postgresConn struct {
	conn pgxConn
	tx   pgx.Tx
	opts options
}

func (c *postgresConn) Engine() Engine { return EnginePostgres }

func (c *postgresConn) begin(ctx context.Context) (pgx.Tx, error) {
	if c.conn == nil {
		return nil, errors.New("connection is closed")
	}
	if c.tx == nil {
		tx, err := c.conn.Begin(ctx)
		if err != nil {
			return nil, err
		}
		c.tx = tx
	}
	return c.tx, nil
}

func (c *postgresConn) prepare(ctx context.Context, query string, args []any) (pgx.Tx, string, error) {
	c.opts.trace(ctx, EnginePostgres, query, args)
	native, err := Rebind(EnginePostgres, query)
	if err != nil {
		return nil, "", err
	}
	tx, err := c.begin(ctx)
	if err != nil {
		return nil, "", err
	}
	return tx, native, nil
}

// abort rolls back the open transaction after a failed statement. Postgres
// refuses further statements in an aborted transaction.
func (c *postgresConn) abort(ctx context.Context, query string, err error) error {
	if c.tx != nil {
		_ = c.tx.Rollback(ctx)
		c.tx = nil
	}
	return newQueryError(query, err)
}

func (c *postgresConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tx, native, err := c.prepare(ctx, query, args)
	if err != nil {
		return 0, newQueryError(query, err)
	}
	tag, err := tx.Exec(ctx, native, args...)
	if err != nil {
		return 0, c.abort(ctx, query, err)
	}
	return tag.RowsAffected(), nil
}

func (c *postgresConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	tx, native, err := c.prepare(ctx, query, args)
	if err != nil {
		return nil, newQueryError(query, err)
	}
	result, err := collectRows(ctx, tx, native, args)
	if err != nil {
		return nil, c.abort(ctx, query, err)
	}
	return result, nil
}

func collectRows(ctx context.Context, tx pgx.Tx, query string, args []any) ([]Row, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result = append(result, newRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *postgresConn) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (c *postgresConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return newQueryError("COMMIT", err)
	}
	return nil
}

func (c *postgresConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return newQueryError("ROLLBACK", err)
	}
	return nil
}

func (c *postgresConn) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	rbErr := c.Rollback(ctx)
	conn := c.conn
	c.conn = nil
	if err := conn.Close(ctx); err != nil {
		return err
	}
	return rbErr
}
