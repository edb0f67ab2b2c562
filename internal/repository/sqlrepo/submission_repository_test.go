package sqlrepo

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestSubmissionRepository_SQLite(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.SubmissionRepository {
		return NewSubmissionRepository(newSQLiteDB(t))
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newSQLiteDB(t)
	require.NoError(t, Migrate(context.Background(), db))
}
