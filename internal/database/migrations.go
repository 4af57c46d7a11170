package database

import (
	"context"
	"fmt"

	"genricycle/internal/logger"
	"genricycle/internal/models"
)

// BootstrapState tracks how far a bootstrap run got. States only move
// forward; a failed run leaves the store at the last completed state and the
// next run resumes from there because every step is idempotent.
type BootstrapState int

const (
	StateUninitialized BootstrapState = iota
	StateTablesCreated
	StateColumnsMigrated
	StateSeeded
	StateReady
)

func (s BootstrapState) String() string {
	switch s {
	case StateTablesCreated:
		return "tables-created"
	case StateColumnsMigrated:
		return "columns-migrated"
	case StateSeeded:
		return "seeded"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

type Bootstrapper struct {
	conn    Conn
	dialect dialect
	tables  []models.TableDef
	added   map[string][]models.ColumnDef
	seeds   []seed
	state   BootstrapState
}

func NewBootstrapper(conn Conn, d dialect) *Bootstrapper {
	return &Bootstrapper{
		conn:    conn,
		dialect: d,
		tables:  Tables,
		added:   AddedColumns,
		seeds:   seeds,
	}
}

func (b *Bootstrapper) State() BootstrapState { return b.state }

// Run brings the store to the expected schema and seeds reference data.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := CheckOrder(b.tables); err != nil {
		return &SchemaError{Step: "create_tables", Err: err}
	}

	steps := []struct {
		name string
		next BootstrapState
		run  func(context.Context) error
	}{
		{"create_tables", StateTablesCreated, b.createTables},
		{"migrate_columns", StateColumnsMigrated, b.migrateColumns},
		{"seed", StateSeeded, b.seed},
	}

	for i, step := range steps {
		logger.Info(fmt.Sprintf("Running bootstrap step %d/%d", i+1, len(steps)), "step", step.name)
		if err := step.run(ctx); err != nil {
			return err
		}
		b.state = step.next
	}

	b.state = StateReady
	logger.Info("Bootstrap completed successfully", "engine", b.dialect.engine(), "state", b.state)
	return nil
}

func (b *Bootstrapper) createTables(ctx context.Context) error {
	for _, t := range b.tables {
		if err := b.execDDL(ctx, "create_tables", t.Name, createTableDDL(b.dialect, t)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) migrateColumns(ctx context.Context) error {
	for _, table := range addedColumnTables {
		cols := b.added[table]
		if len(cols) == 0 {
			continue
		}
		existing, err := b.dialect.existingColumns(ctx, b.conn, table)
		if err != nil {
			_ = b.conn.Rollback(ctx)
			return &SchemaError{Step: "migrate_columns", Table: table, Err: err}
		}
		// release the read transaction before running DDL
		if err := b.conn.Commit(ctx); err != nil {
			return &SchemaError{Step: "migrate_columns", Table: table, Err: err}
		}
		for _, col := range cols {
			if existing[col.Name] {
				continue
			}
			col.NotNull = false
			if err := b.execDDL(ctx, "migrate_columns", table, addColumnDDL(b.dialect, table, col)); err != nil {
				return err
			}
			logger.Info("Added column", "table", table, "column", col.Name)
		}
	}
	return nil
}

// execDDL runs one statement in its own transaction. "Already exists"
// failures are swallowed; anything else aborts the bootstrap.
func (b *Bootstrapper) execDDL(ctx context.Context, step, table, stmt string) error {
	if _, err := b.conn.Exec(ctx, stmt); err != nil {
		_ = b.conn.Rollback(ctx)
		if b.dialect.alreadyExists(err) {
			logger.Debug("Ignoring concurrent DDL", "table", table, "error", err)
			return nil
		}
		return &SchemaError{Step: step, Table: table, Err: err}
	}
	if err := b.conn.Commit(ctx); err != nil {
		if b.dialect.alreadyExists(err) {
			return nil
		}
		return &SchemaError{Step: step, Table: table, Err: err}
	}
	return nil
}
