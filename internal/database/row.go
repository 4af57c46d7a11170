package database

import (
	"fmt"
	"strconv"
	"time"
)

// Row is the canonical, name-addressable result row on every engine.
type Row map[string]any

// TimeLayout is how timestamp values are rendered in rows. It matches
// SQLite's datetime('now').
const TimeLayout = time.DateTime

func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC().Format(TimeLayout)
	default:
		return v
	}
}

func newRow(columns []string, values []any) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		row[col] = normalizeValue(values[i])
	}
	return row
}

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// NullString returns nil for SQL NULL.
func (r Row) NullString(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func (r Row) Float64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Bool treats non-zero integers and "YES"/"true" strings as true.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch v {
		case "YES", "yes", "true", "t", "1":
			return true
		}
	}
	return false
}
