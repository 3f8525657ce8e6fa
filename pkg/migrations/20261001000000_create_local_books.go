package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE local_books (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				cover_id INTEGER,
				first_publish_year INTEGER,
				cover_image_data BLOB,
				reading_status INTEGER NOT NULL DEFAULT 0,
				is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
				date_added TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		// My-books listings filter on one of these and sort by date_added.
		_, err = db.Exec(`CREATE INDEX ix_local_books_reading_status ON local_books (reading_status, date_added)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_local_books_is_favorite ON local_books (is_favorite, date_added)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS local_books")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
