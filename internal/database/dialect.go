package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"genricycle/internal/models"
)

// dialect holds everything that differs between engines at the DDL and
// catalog level. Both implementations feed the same Bootstrapper and
// introspector.
type dialect interface {
	engine() Engine
	columnType(col models.ColumnDef) string
	quote(ident string) string
	// alreadyExists reports DDL failures that only mean another bootstrap
	// got there first.
	alreadyExists(err error) bool
	existingColumns(ctx context.Context, conn Conn, table string) (map[string]bool, error)
	listTables(ctx context.Context, conn Conn) ([]string, error)
	columns(ctx context.Context, conn Conn, table string) ([]models.Column, error)
	foreignKeys(ctx context.Context, conn Conn, table string) ([]models.ForeignKey, error)
}

func columnDDL(d dialect, col models.ColumnDef) string {
	var sb strings.Builder
	sb.WriteString(d.quote(col.Name))
	sb.WriteString(" ")
	sb.WriteString(d.columnType(col))
	if col.NotNull && col.Kind != models.KindID {
		sb.WriteString(" NOT NULL")
	}
	if col.Unique {
		sb.WriteString(" UNIQUE")
	}
	if col.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(col.Default)
	}
	return sb.String()
}

func createTableDDL(d dialect, t models.TableDef) string {
	lines := make([]string, 0, len(t.Columns)+len(t.ForeignKeys))
	for _, col := range t.Columns {
		lines = append(lines, "    "+columnDDL(d, col))
	}
	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)",
			d.quote(fk.Column), d.quote(fk.RefTable), d.quote(fk.RefColumn))
		if fk.OnDelete != "" {
			line += " ON DELETE " + fk.OnDelete
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", d.quote(t.Name), strings.Join(lines, ",\n"))
}

func addColumnDDL(d dialect, table string, col models.ColumnDef) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.quote(table), columnDDL(d, col))
}

type sqliteDialect struct{}

func (sqliteDialect) engine() Engine { return EngineSQLite }

func (sqliteDialect) columnType(col models.ColumnDef) string {
	switch col.Kind {
	case models.KindID:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	case models.KindInteger:
		return "INTEGER"
	case models.KindReal:
		return "REAL"
	case models.KindTimestamp:
		return "TEXT DEFAULT (datetime('now'))"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (sqliteDialect) alreadyExists(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}

func (d sqliteDialect) existingColumns(ctx context.Context, conn Conn, table string) (map[string]bool, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", d.quote(table)))
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(rows))
	for _, r := range rows {
		existing[r.String("name")] = true
	}
	return existing, nil
}

func (sqliteDialect) listTables(ctx context.Context, conn Conn) ([]string, error) {
	rows, err := conn.Query(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, r.String("name"))
	}
	return tables, nil
}

func (d sqliteDialect) columns(ctx context.Context, conn Conn, table string) ([]models.Column, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", d.quote(table)))
	if err != nil {
		return nil, err
	}
	cols := make([]models.Column, 0, len(rows))
	for _, r := range rows {
		pk := r.Int64("pk") > 0
		cols = append(cols, models.Column{
			Name: r.String("name"),
			Type: r.String("type"),
			// an INTEGER PRIMARY KEY aliases the rowid and can never be NULL
			NotNull:    r.Bool("notnull") || pk,
			Default:    r.NullString("dflt_value"),
			PrimaryKey: pk,
		})
	}
	return cols, nil
}

func (d sqliteDialect) foreignKeys(ctx context.Context, conn Conn, table string) ([]models.ForeignKey, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", d.quote(table)))
	if err != nil {
		return nil, err
	}
	fks := make([]models.ForeignKey, 0, len(rows))
	for _, r := range rows {
		fks = append(fks, models.ForeignKey{
			From:     r.String("from"),
			Table:    r.String("table"),
			To:       r.String("to"),
			OnUpdate: r.String("on_update"),
			OnDelete: r.String("on_delete"),
		})
	}
	return fks, nil
}

type postgresDialect struct{}

func (postgresDialect) engine() Engine { return EnginePostgres }

func (postgresDialect) columnType(col models.ColumnDef) string {
	switch col.Kind {
	case models.KindID:
		return "SERIAL PRIMARY KEY"
	case models.KindInteger:
		return "INTEGER"
	case models.KindReal:
		return "DOUBLE PRECISION"
	case models.KindTimestamp:
		return "TIMESTAMPTZ DEFAULT NOW()"
	default:
		return "TEXT"
	}
}

func (postgresDialect) quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

func (postgresDialect) alreadyExists(err error) bool {
	code, constraint := pgCode(err)
	switch code {
	case pgDuplicateTable, pgDuplicateColumn, pgDuplicateObject, pgDuplicateDatabase:
		return true
	case pgUniqueViolation:
		return constraint == pgTypeNameIndex
	}
	return false
}

func (postgresDialect) existingColumns(ctx context.Context, conn Conn, table string) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `
		SELECT column_name::text AS name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ?
	`, table)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(rows))
	for _, r := range rows {
		existing[r.String("name")] = true
	}
	return existing, nil
}

func (postgresDialect) listTables(ctx context.Context, conn Conn) ([]string, error) {
	rows, err := conn.Query(ctx, `
		SELECT table_name::text AS name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, r.String("name"))
	}
	return tables, nil
}

func (postgresDialect) columns(ctx context.Context, conn Conn, table string) ([]models.Column, error) {
	rows, err := conn.Query(ctx, `
		SELECT
			c.column_name::text AS name,
			c.data_type::text AS type,
			c.is_nullable::text AS is_nullable,
			c.column_default::text AS dflt_value,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND kcu.column_name = c.column_name
			) AS pk
		FROM information_schema.columns c
		WHERE c.table_schema = current_schema() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}
	cols := make([]models.Column, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, models.Column{
			Name:       r.String("name"),
			Type:       r.String("type"),
			NotNull:    r.String("is_nullable") == "NO",
			Default:    r.NullString("dflt_value"),
			PrimaryKey: r.Bool("pk"),
		})
	}
	return cols, nil
}

// foreignKeys joins key_column_usage with referential_constraints (for the
// update/delete rules) and constraint_column_usage (for the referenced column).
func (postgresDialect) foreignKeys(ctx context.Context, conn Conn, table string) ([]models.ForeignKey, error) {
	rows, err := conn.Query(ctx, `
		SELECT
			kcu.column_name::text AS from_column,
			ccu.table_name::text AS ref_table,
			ccu.column_name::text AS ref_column,
			rc.update_rule::text AS on_update,
			rc.delete_rule::text AS on_delete
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_name = kcu.constraint_name
			AND rc.constraint_schema = kcu.constraint_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = rc.constraint_name
			AND ccu.constraint_schema = rc.constraint_schema
		WHERE kcu.table_schema = current_schema() AND kcu.table_name = ?
	`, table)
	if err != nil {
		return nil, err
	}
	fks := make([]models.ForeignKey, 0, len(rows))
	for _, r := range rows {
		fks = append(fks, models.ForeignKey{
			From:     r.String("from_column"),
			Table:    r.String("ref_table"),
			To:       r.String("ref_column"),
			OnUpdate: r.String("on_update"),
			OnDelete: r.String("on_delete"),
		})
	}
	return fks, nil
}
