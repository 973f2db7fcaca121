package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/libraryhub/libraryhub/pkg/config"
	"github.com/libraryhub/libraryhub/pkg/database"
	"github.com/libraryhub/libraryhub/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// New opens a migrated in-memory SQLite database private to the calling
// test. The database is named so every pooled connection sees the same data.
func New(t testing.TB) *bun.DB {
	t.Helper()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.DatabaseConnectRetryCount = 1

	db, err := database.New(cfg)
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
