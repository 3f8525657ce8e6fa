package books

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

const (
	//tygo:emit export type MyBooksFilter = typeof FilterAll | typeof FilterReading | typeof FilterDone;
	FilterAll     = "all"
	FilterReading = "reading"
	FilterDone    = "done"
)

// Service is the local book store. Every call runs on the store's own queue,
// so operations execute one at a time in the order they were issued. A call
// whose ctx is cancelled after its operation has started still completes,
// and returns the operation's own result.
type Service struct {
	db    *bun.DB
	queue *dispatch.Queue
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:    db,
		queue: dispatch.New("books"),
	}
}

// Close waits for queued operations to finish and stops the store's queue.
func (svc *Service) Close() {
	svc.queue.Close()
}

func (svc *Service) FetchFavorites(ctx context.Context) ([]*models.LocalBook, error) {
	books := []*models.LocalBook{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		return errors.WithStack(svc.db.
			NewSelect().
			Model(&books).
			Where("lb.is_favorite = ?", true).
			Order("lb.date_added DESC", "lb.id ASC").
			Scan(ctx))
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// FetchMyBooks lists books with a reading status. FilterAll returns every book
// that isn't ReadingStatusNone, reading before done.
func (svc *Service) FetchMyBooks(ctx context.Context, filter string) ([]*models.LocalBook, error) {
	books := []*models.LocalBook{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		q := svc.db.NewSelect().Model(&books)

		switch filter {
		case FilterAll:
			q = q.
				Where("lb.reading_status IN (?)", bun.In([]models.ReadingStatus{models.ReadingStatusReading, models.ReadingStatusDone})).
				Order("lb.reading_status ASC")
		case FilterReading:
			q = q.Where("lb.reading_status = ?", models.ReadingStatusReading)
		case FilterDone:
			q = q.Where("lb.reading_status = ?", models.ReadingStatusDone)
		default:
			return errcodes.ValidationError("Unknown filter " + filter)
		}

		return errors.WithStack(q.Order("lb.date_added DESC", "lb.id ASC").Scan(ctx))
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Retrieve returns a single book, or a NotFound error.
func (svc *Service) Retrieve(ctx context.Context, id string) (*models.LocalBook, error) {
	book := &models.LocalBook{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		err := svc.db.
			NewSelect().
			Model(book).
			Where("lb.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book")
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Upsert inserts book or overwrites the existing row with the same id. An
// existing row keeps its date_added; book.DateAdded is refreshed to match
// whatever ends up stored.
func (svc *Service) Upsert(ctx context.Context, book *models.LocalBook) error {
	if book.DateAdded.IsZero() {
		book.DateAdded = time.Now()
	}
	book.DateAdded = book.DateAdded.UTC()

	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewInsert().
			Model(book).
			On("CONFLICT (id) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("author = EXCLUDED.author").
			Set("cover_id = EXCLUDED.cover_id").
			Set("first_publish_year = EXCLUDED.first_publish_year").
			Set("cover_image_data = EXCLUDED.cover_image_data").
			Set("reading_status = EXCLUDED.reading_status").
			Set("is_favorite = EXCLUDED.is_favorite").
			Returning("date_added").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// UpdateStatus changes the reading status of an existing book. It never
// creates a row.
func (svc *Service) UpdateStatus(ctx context.Context, id string, status models.ReadingStatus) error {
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		res, err := svc.db.
			NewUpdate().
			Model((*models.LocalBook)(nil)).
			Set("reading_status = ?", status).
			Where("id = ?", id).
			Exec(ctx)
		return requireAffected(res, err)
	})
}

// ToggleFavorite sets the favorite flag, creating a bare row dated now if the
// book has never been stored.
func (svc *Service) ToggleFavorite(ctx context.Context, id string, isFavorite bool) error {
	book := &models.LocalBook{
		ID:         id,
		IsFavorite: isFavorite,
		DateAdded:  time.Now().UTC(),
	}
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewInsert().
			Model(book).
			On("CONFLICT (id) DO UPDATE").
			Set("is_favorite = EXCLUDED.is_favorite").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// UpdateCoverData stores or clears (nil) the cached cover bytes of an existing
// book.
func (svc *Service) UpdateCoverData(ctx context.Context, id string, data []byte) error {
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		res, err := svc.db.
			NewUpdate().
			Model((*models.LocalBook)(nil)).
			Set("cover_image_data = ?", data).
			Where("id = ?", id).
			Exec(ctx)
		return requireAffected(res, err)
	})
}

// Delete removes the book if it exists.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewDelete().
			Model((*models.LocalBook)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// FetchByIDs looks up several books at once. Ids without a row are absent
// from the result. An empty ids slice returns an empty map without touching
// the database.
func (svc *Service) FetchByIDs(ctx context.Context, ids []string) (map[string]*models.LocalBook, error) {
	result := map[string]*models.LocalBook{}
	if len(ids) == 0 {
		return result, nil
	}

	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		var books []*models.LocalBook
		err := svc.db.
			NewSelect().
			Model(&books).
			Where("lb.id IN (?)", bun.In(ids)).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, b := range books {
			result[b.ID] = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}
