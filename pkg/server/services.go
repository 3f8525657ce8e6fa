package server

import (
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/books"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/imagecache"
	"github.com/readingdiary/diary/pkg/notes"
	"github.com/readingdiary/diary/pkg/openlibrary"
	"github.com/readingdiary/diary/pkg/profile"
	"github.com/readingdiary/diary/pkg/settings"
	"github.com/uptrace/bun"
)

// Services holds the long-lived components shared by the HTTP server and the
// CLI. Each store is created once so that all of its callers share one queue.
type Services struct {
	Books    *books.Service
	Notes    *notes.Service
	Settings *settings.Service
	Catalog  *openlibrary.Client
	Covers   *imagecache.Cache
	Profile  *profile.Aggregator
}

func NewServices(cfg *config.Config, db *bun.DB) (*Services, error) {
	client, err := openlibrary.New(cfg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	bookService := books.NewService(db)

	return &Services{
		Books:    bookService,
		Notes:    notes.NewService(db),
		Settings: settings.NewService(db),
		Catalog:  client,
		Covers:   imagecache.New(cfg, client),
		Profile:  profile.NewAggregator(cfg, bookService),
	}, nil
}

// Close drains every store's queue.
func (s *Services) Close() {
	s.Books.Close()
	s.Notes.Close()
	s.Settings.Close()
}
