// Package testutils holds helpers shared by package tests.
package testutils

import (
	"context"
	"testing"

	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/database"
	"github.com/readingdiary/diary/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewDB returns a migrated in-memory database that's closed when the test
// finishes.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
