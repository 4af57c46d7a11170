package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genricycle/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want QueryErrorKind
	}{
		{"postgres unique", &pgconn.PgError{Code: pgUniqueViolation}, KindUnique},
		{"postgres foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, KindForeignKey},
		{"postgres not null", &pgconn.PgError{Code: pgNotNullViolation}, KindNotNull},
		{"postgres syntax", &pgconn.PgError{Code: "42601"}, KindOther},
		{"wrapped postgres", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation}), KindUnique},
		{"sqlite message", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), KindUnique},
		{"plain", errors.New("boom"), KindOther},
	}
	for _, tc := range cases {
		t.Run("Should classify "+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestQueryError(t *testing.T) {
	t.Run("Should keep the engine error reachable", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgForeignKeyViolation, Message: "violates foreign key"}
		err := newQueryError("INSERT INTO orders", pgErr)

		var got *pgconn.PgError
		require.ErrorAs(t, err, &got)
		assert.Same(t, pgErr, got)
		assert.True(t, IsForeignKeyViolation(err))
		assert.False(t, IsUniqueViolation(err))
	})

	t.Run("Should return nil for nil", func(t *testing.T) {
		assert.NoError(t, newQueryError("SELECT 1", nil))
	})
}

func TestPostgresDialect_AlreadyExists(t *testing.T) {
	d := postgresDialect{}
	t.Run("Should tolerate duplicate objects", func(t *testing.T) {
		for _, code := range []string{pgDuplicateTable, pgDuplicateColumn, pgDuplicateObject, pgDuplicateDatabase} {
			assert.True(t, d.alreadyExists(&pgconn.PgError{Code: code}), code)
		}
		assert.True(t, d.alreadyExists(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: pgTypeNameIndex}))
	})

	t.Run("Should not tolerate other failures", func(t *testing.T) {
		assert.False(t, d.alreadyExists(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}))
		assert.False(t, d.alreadyExists(errors.New("connection reset")))
	})
}

func TestSQLiteDialect_AlreadyExists(t *testing.T) {
	d := sqliteDialect{}
	assert.True(t, d.alreadyExists(errors.New("table users already exists")))
	assert.True(t, d.alreadyExists(errors.New("duplicate column name: language")))
	assert.False(t, d.alreadyExists(errors.New("no such table: users")))
}

func TestCheckOrder(t *testing.T) {
	t.Run("Should accept the table catalog", func(t *testing.T) {
		assert.NoError(t, CheckOrder(Tables))
	})

	t.Run("Should reject a child declared before its parent", func(t *testing.T) {
		var orders, users = Tables[0], Tables[0]
		for _, tbl := range Tables {
			switch tbl.Name {
			case "orders":
				orders = tbl
			case "users":
				users = tbl
			}
		}
		err := CheckOrder([]models.TableDef{orders, users})
		assert.ErrorContains(t, err, "orders references users")
	})
}
