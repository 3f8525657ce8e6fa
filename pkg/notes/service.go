package notes

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/dispatch"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/uptrace/bun"
)

// Service is the notes store. Like the book store it runs every call on its
// own queue, in call order.
type Service struct {
	db    *bun.DB
	queue *dispatch.Queue
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:    db,
		queue: dispatch.New("notes"),
	}
}

func (svc *Service) Close() {
	svc.queue.Close()
}

// FetchNotes lists the notes of one book. Manual order is ascending by
// order_index; the timestamp sorts are newest first.
func (svc *Service) FetchNotes(ctx context.Context, bookID string, sort string) ([]*models.BookNote, error) {
	notes := []*models.BookNote{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		q := svc.db.
			NewSelect().
			Model(&notes).
			Where("bn.book_id = ?", bookID)

		switch sort {
		case models.NotesSortManual, "":
			q = q.Order("bn.order_index ASC", "bn.created_at ASC")
		case models.NotesSortCreatedAt:
			q = q.Order("bn.created_at DESC")
		case models.NotesSortUpdatedAt:
			q = q.Order("bn.updated_at DESC")
		default:
			return errcodes.ValidationError("Unknown sort " + sort)
		}

		return errors.WithStack(q.Order("bn.id ASC").Scan(ctx))
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// FetchRecentNotes returns the most recently created notes across all books.
// limit is raised to 1 if smaller.
func (svc *Service) FetchRecentNotes(ctx context.Context, limit int) ([]*models.BookNote, error) {
	notes := []*models.BookNote{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		return errors.WithStack(svc.db.
			NewSelect().
			Model(&notes).
			Order("bn.created_at DESC", "bn.id ASC").
			Limit(max(1, limit)).
			Scan(ctx))
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Retrieve returns a single note, or a NotFound error.
func (svc *Service) Retrieve(ctx context.Context, id string) (*models.BookNote, error) {
	note := &models.BookNote{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		return findNote(ctx, svc.db, id, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// HasNotes reports whether the book has at least one note.
func (svc *Service) HasNotes(ctx context.Context, bookID string) (bool, error) {
	var exists bool
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		exists, err = svc.db.
			NewSelect().
			Model((*models.BookNote)(nil)).
			Where("bn.book_id = ?", bookID).
			Exists(ctx)
		return errors.WithStack(err)
	})
	return exists, err
}

// Add appends note to the end of its book's manual order. The book has to
// exist in the local book table.
func (svc *Service) Add(ctx context.Context, note *models.BookNote) error {
	normalizeTimes(note)

	return svc.queue.Do(ctx, func(ctx context.Context) error {
		return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			if err := requireBook(ctx, tx, note.BookID); err != nil {
				return err
			}

			next, err := nextOrderIndex(ctx, tx, note.BookID)
			if err != nil {
				return err
			}
			note.OrderIndex = next

			_, err = tx.NewInsert().Model(note).Exec(ctx)
			return errors.WithStack(err)
		})
	})
}

// Upsert creates note if its id is unknown, otherwise it overwrites the
// text and timestamps of the stored note. A created note with a zero order
// index goes to the end of the manual order. The stored book id and order
// index are copied back onto note.
func (svc *Service) Upsert(ctx context.Context, note *models.BookNote) error {
	normalizeTimes(note)

	return svc.queue.Do(ctx, func(ctx context.Context) error {
		return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			existing := &models.BookNote{}
			err := findNote(ctx, tx, note.ID, existing)
			switch {
			case err == nil:
				note.BookID = existing.BookID
				note.OrderIndex = existing.OrderIndex
				_, err := tx.
					NewUpdate().
					Model(note).
					Column("text", "created_at", "updated_at").
					WherePK().
					Exec(ctx)
				return errors.WithStack(err)
			case !errcodes.IsNotFound(err):
				return err
			}

			if err := requireBook(ctx, tx, note.BookID); err != nil {
				return err
			}
			if note.OrderIndex == 0 {
				next, err := nextOrderIndex(ctx, tx, note.BookID)
				if err != nil {
					return err
				}
				note.OrderIndex = next
			}

			_, err = tx.NewInsert().Model(note).Exec(ctx)
			return errors.WithStack(err)
		})
	})
}

// UpdateText replaces the text of an existing note.
func (svc *Service) UpdateText(ctx context.Context, id, text string, updatedAt time.Time) error {
	updatedAt = updatedAt.UTC()
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		res, err := svc.db.
			NewUpdate().
			Model((*models.BookNote)(nil)).
			Set("text = ?", text).
			Set("updated_at = ?", updatedAt).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Note")
		}
		return nil
	})
}

// Delete removes the note if it exists.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewDelete().
			Model((*models.BookNote)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// DeleteAllNotes removes every note of a book.
func (svc *Service) DeleteAllNotes(ctx context.Context, bookID string) error {
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewDelete().
			Model((*models.BookNote)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// UpdateOrder sets each listed note's order_index to its position in
// orderedIDs. Ids that don't belong to the book are ignored.
func (svc *Service) UpdateOrder(ctx context.Context, bookID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	return svc.queue.Do(ctx, func(ctx context.Context) error {
		return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			for i, id := range orderedIDs {
				_, err := tx.
					NewUpdate().
					Model((*models.BookNote)(nil)).
					Set("order_index = ?", i).
					Where("id = ?", id).
					Where("book_id = ?", bookID).
					Exec(ctx)
				if err != nil {
					return errors.WithStack(err)
				}
			}
			return nil
		})
	})
}

func findNote(ctx context.Context, db bun.IDB, id string, note *models.BookNote) error {
	err := db.
		NewSelect().
		Model(note).
		Where("bn.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Note")
		}
		return errors.WithStack(err)
	}
	return nil
}

// requireBook checks the parent book against the local book table. The two
// stores don't share a queue, so this is a point-in-time check.
func requireBook(ctx context.Context, db bun.IDB, bookID string) error {
	exists, err := db.
		NewSelect().
		Model((*models.LocalBook)(nil)).
		Where("lb.id = ?", bookID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ParentNotFound("Book")
	}
	return nil
}

func nextOrderIndex(ctx context.Context, db bun.IDB, bookID string) (int, error) {
	var next int
	err := db.
		NewSelect().
		Model((*models.BookNote)(nil)).
		ColumnExpr("COALESCE(MAX(bn.order_index), -1) + 1").
		Where("bn.book_id = ?", bookID).
		Scan(ctx, &next)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return next, nil
}

func normalizeTimes(note *models.BookNote) {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	note.CreatedAt = note.CreatedAt.UTC()
	if note.UpdatedAt != nil {
		t := note.UpdatedAt.UTC()
		note.UpdatedAt = &t
	}
}
