// Package profile derives reading statistics from the local book store.
package profile

import (
	"context"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/books"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/models"
	"golang.org/x/sync/errgroup"
)

// BookStore is the read side of the book store.
type BookStore interface {
	FetchFavorites(ctx context.Context) ([]*models.LocalBook, error)
	FetchMyBooks(ctx context.Context, filter string) ([]*models.LocalBook, error)
}

type Profile struct {
	DisplayName    string            `json:"display_name"`
	FavoritesCount int               `json:"favorites_count"`
	ReadingCount   int               `json:"reading_count"`
	DoneCount      int               `json:"done_count"`
	CurrentReading *models.LocalBook `json:"current_reading"`
	LastFinished   *models.LocalBook `json:"last_finished"`
}

type Aggregator struct {
	store       BookStore
	displayName string
}

func NewAggregator(cfg *config.Config, store BookStore) *Aggregator {
	return &Aggregator{
		store:       store,
		displayName: cfg.DisplayName,
	}
}

// LoadProfile queries favorites, reading and done books concurrently. If
// any query fails, the first error is returned and nothing else is.
func (a *Aggregator) LoadProfile(ctx context.Context) (*Profile, error) {
	var favorites, reading, done []*models.LocalBook

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favorites, err = a.store.FetchFavorites(gctx)
		return errors.WithStack(err)
	})
	g.Go(func() error {
		var err error
		reading, err = a.store.FetchMyBooks(gctx, books.FilterReading)
		return errors.WithStack(err)
	})
	g.Go(func() error {
		var err error
		done, err = a.store.FetchMyBooks(gctx, books.FilterDone)
		return errors.WithStack(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Profile{
		DisplayName:    a.displayName,
		FavoritesCount: len(favorites),
		ReadingCount:   len(reading),
		DoneCount:      len(done),
		CurrentReading: first(reading),
		LastFinished:   first(done),
	}, nil
}

// first relies on the store returning books newest first.
func first(list []*models.LocalBook) *models.LocalBook {
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
