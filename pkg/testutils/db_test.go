package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestNewDB_AppliesMigrations(t *testing.T) {
	t.Parallel()

	db := NewDB(t)

	var tables []string
	err := db.NewSelect().
		Table("sqlite_master").
		Column("name").
		Where("type = 'table'").
		Where("name IN (?)", bun.In([]string{"local_books", "book_notes", "settings"})).
		Order("name").
		Scan(context.Background(), &tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"book_notes", "local_books", "settings"}, tables)
}
