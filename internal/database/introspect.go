package database

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"genricycle/internal/models"
)

// SampleLimit caps the rows copied into each table summary.
const SampleLimit = 5

// introspect describes every user table through the engine catalog. It only
// reads; the caller owns the connection and its transaction.
func introspect(ctx context.Context, conn Conn, d dialect) (*models.Report, error) {
	tables, err := d.listTables(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	// catalog collations differ between engines
	slices.Sort(tables)

	report := &models.Report{
		Engine:  string(d.engine()),
		Tables:  tables,
		Summary: make(map[string]models.TableSummary, len(tables)),
	}

	for _, table := range tables {
		summary, err := summarize(ctx, conn, d, table)
		if err != nil {
			return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
		}
		report.Summary[table] = summary
	}
	return report, nil
}

func summarize(ctx context.Context, conn Conn, d dialect, table string) (models.TableSummary, error) {
	var summary models.TableSummary

	cols, err := d.columns(ctx, conn, table)
	if err != nil {
		return summary, err
	}
	fks, err := d.foreignKeys(ctx, conn, table)
	if err != nil {
		return summary, err
	}
	slices.SortStableFunc(fks, func(a, b models.ForeignKey) int {
		return cmp.Compare(a.From, b.From)
	})

	quoted := d.quote(table)
	count, err := conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", quoted))
	if err != nil {
		return summary, err
	}
	rows, err := conn.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoted, SampleLimit))
	if err != nil {
		return summary, err
	}

	samples := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, map[string]any(r))
	}

	summary.Columns = cols
	summary.ForeignKeys = fks
	summary.RowCount = count.Int64("n")
	summary.SampleRows = samples
	return summary, nil
}
