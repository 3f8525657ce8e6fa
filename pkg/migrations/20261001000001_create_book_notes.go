package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// No foreign key to local_books: notes and books live behind
		// different stores and the notes store checks the parent itself.
		_, err := db.Exec(`
			CREATE TABLE book_notes (
				id TEXT PRIMARY KEY,
				book_id TEXT NOT NULL,
				text TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ,
				order_index INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_book_notes_book_id_order_index ON book_notes (book_id, order_index)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_notes_created_at ON book_notes (created_at)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS book_notes")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
