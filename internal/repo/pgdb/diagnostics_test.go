package pgdb

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const schemaVersionSql = "SELECT version, dirty FROM schema_migrations LIMIT 1"

func TestDiagnosticsPing(t *testing.T) {
	t.Run("clean schema", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(schemaVersionSql)).
			WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).AddRow(int64(1), false))

		assert.NoError(t, NewDiagnosticsRepo(db).Ping(context.Background()))
	})

	t.Run("dirty schema", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(schemaVersionSql)).
			WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).AddRow(int64(1), true))

		assert.ErrorIs(t, NewDiagnosticsRepo(db).Ping(context.Background()), ErrDirtySchema)
	})

	t.Run("not migrated", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(schemaVersionSql)).
			WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}))

		assert.Error(t, NewDiagnosticsRepo(db).Ping(context.Background()))
	})
}
