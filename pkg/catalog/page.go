package catalog

import (
	"context"

	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// Searcher runs one page of a catalog search.
type Searcher interface {
	Search(ctx context.Context, query string, page, limit int) ([]*models.Book, error)
}

// LocalStore is the part of the book store the catalog needs.
type LocalStore interface {
	FetchByIDs(ctx context.Context, ids []string) (map[string]*models.LocalBook, error)
	Upsert(ctx context.Context, book *models.LocalBook) error
}

// Item is a catalog result merged with whatever the user has recorded for it.
type Item struct {
	*models.Book
	CoverURL      string               `json:"cover_url,omitempty"`
	ReadingStatus models.ReadingStatus `json:"reading_status"`
	IsFavorite    bool                 `json:"is_favorite"`
}

// Page is one loaded page of results.
type Page struct {
	Number       int                          `json:"page"`
	Items        []*Item                      `json:"items"`
	HasMorePages bool                         `json:"has_more_pages"`
	Books        []*models.Book               `json:"-"`
	LocalState   map[string]*models.LocalBook `json:"-"`
}

// Merge pairs every book with its local row. Books without one get no status
// and aren't favorites.
func Merge(books []*models.Book, local map[string]*models.LocalBook) []*Item {
	items := make([]*Item, 0, len(books))
	for _, b := range books {
		item := &Item{
			Book:          b,
			CoverURL:      b.CoverURL(),
			ReadingStatus: models.ReadingStatusNone,
		}
		if lb, ok := local[b.ID]; ok {
			item.ReadingStatus = lb.ReadingStatus
			item.IsFavorite = lb.IsFavorite
		}
		items = append(items, item)
	}
	return items
}

// PageLoader fetches a page from the catalog and enriches it with local
// state. It holds no paging state of its own.
type PageLoader struct {
	searcher Searcher
	store    LocalStore
	pageSize int
}

func NewPageLoader(searcher Searcher, store LocalStore, pageSize int) *PageLoader {
	return &PageLoader{
		searcher: searcher,
		store:    store,
		pageSize: max(1, pageSize),
	}
}

// PageSize is the limit used when Load is called with limit <= 0.
func (l *PageLoader) PageSize() int {
	return l.pageSize
}

// Load fetches page (1-based) of query. A page holding fewer than limit
// results is the last one. If the local lookup fails the page is still
// returned, with every item in its default state.
func (l *PageLoader) Load(ctx context.Context, query string, page, limit int) (*Page, error) {
	if limit <= 0 {
		limit = l.pageSize
	}
	page = max(1, page)

	books, err := l.searcher.Search(ctx, query, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	local, err := l.store.FetchByIDs(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).Err(err).Warn("local state lookup failed", logger.Data{
			"query": query,
			"page":  page,
		})
		local = map[string]*models.LocalBook{}
	}

	return &Page{
		Number:       page,
		Items:        Merge(books, local),
		HasMorePages: len(books) >= limit,
		Books:        books,
		LocalState:   local,
	}, nil
}
