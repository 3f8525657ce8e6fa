package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/imagecache"
	"github.com/readingdiary/diary/pkg/models"
)

type searchCall struct {
	query string
	page  int
	limit int
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	started chan searchCall
	fn      func(ctx context.Context, call searchCall) ([]*models.Book, error)
}

func newFakeSearcher(fn func(ctx context.Context, call searchCall) ([]*models.Book, error)) *fakeSearcher {
	return &fakeSearcher{started: make(chan searchCall, 16), fn: fn}
}

func (f *fakeSearcher) Search(ctx context.Context, query string, page, limit int) ([]*models.Book, error) {
	call := searchCall{query, page, limit}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	f.started <- call
	return f.fn(ctx, call)
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// returning always answers with the given books.
func returning(books []*models.Book) func(context.Context, searchCall) ([]*models.Book, error) {
	return func(context.Context, searchCall) ([]*models.Book, error) {
		return books, nil
	}
}

// blockUntilCancelled behaves like the real client when its caller gives up.
func blockUntilCancelled(ctx context.Context, _ searchCall) ([]*models.Book, error) {
	<-ctx.Done()
	return nil, errcodes.Transport(ctx.Err())
}

type fakeStore struct {
	mu       sync.Mutex
	books    map[string]*models.LocalBook
	err      error
	upserted []*models.LocalBook
}

func newFakeStore(books ...*models.LocalBook) *fakeStore {
	s := &fakeStore{books: map[string]*models.LocalBook{}}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

func (s *fakeStore) FetchByIDs(_ context.Context, ids []string) (map[string]*models.LocalBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]*models.LocalBook{}
	for _, id := range ids {
		if b, ok := s.books[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (s *fakeStore) Upsert(_ context.Context, book *models.LocalBook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.upserted = append(s.upserted, book)
	s.books[book.ID] = book
	return nil
}

type fakeCovers struct {
	mu      sync.Mutex
	cached  map[string]*imagecache.Image
	images  map[string]*imagecache.Image
	loads   int
	started chan string
	gate    chan struct{}
}

func newFakeCovers() *fakeCovers {
	return &fakeCovers{
		cached:  map[string]*imagecache.Image{},
		images:  map[string]*imagecache.Image{},
		started: make(chan string, 16),
	}
}

func (f *fakeCovers) Cached(url string) *imagecache.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached[url]
}

func (f *fakeCovers) Load(ctx context.Context, url string) (*imagecache.Image, error) {
	f.mu.Lock()
	f.loads++
	gate := f.gate
	img, ok := f.images[url]
	f.mu.Unlock()
	f.started <- url

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, errcodes.Transport(ctx.Err())
		}
	}
	if !ok {
		return nil, errcodes.Server(404)
	}
	return img, nil
}

func (f *fakeCovers) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func makeBooks(prefix string, n int) []*models.Book {
	books := make([]*models.Book, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, &models.Book{
			ID:     fmt.Sprintf("%s%d", prefix, i),
			Title:  fmt.Sprintf("Title %d", i),
			Author: models.UnknownAuthor,
		})
	}
	return books
}
