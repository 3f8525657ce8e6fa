// Package catalog drives paged catalog browsing and cover loading, merging
// remote results with the user's local book state.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/dispatch"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/imagecache"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// CoverLoader is the image cache as seen by the coordinator.
type CoverLoader interface {
	Cached(url string) *imagecache.Image
	Load(ctx context.Context, url string) (*imagecache.Image, error)
}

type Mode int

const (
	ModeIdle Mode = iota
	ModePopular
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModePopular:
		return "popular"
	case ModeSearch:
		return "search"
	default:
		return "idle"
	}
}

// State is a snapshot of the coordinator's paging state.
type State struct {
	Mode          Mode
	Query         string
	Page          int
	HasMorePages  bool
	IsLoadingPage bool
}

type coverTask struct {
	cancel context.CancelFunc
}

// Coordinator owns one browsing session. Every public method only enqueues
// work; state changes and Sink calls happen on the coordinator's own queue,
// in call order.
type Coordinator struct {
	loader       *PageLoader
	covers       CoverLoader
	store        LocalStore
	sink         Sink
	popularQuery string
	log          logger.Logger
	now          func() time.Time

	queue *dispatch.Queue
	wg    sync.WaitGroup

	// Owned by the queue.
	state        State
	searchSeq    uint64
	cancelSearch context.CancelFunc
	coverTasks   map[string]*coverTask

	snapshotMu sync.RWMutex
	snapshot   State
}

func NewCoordinator(cfg *config.Config, searcher Searcher, covers CoverLoader, store LocalStore, sink Sink) *Coordinator {
	if sink == nil {
		sink = func(Event) {}
	}
	c := &Coordinator{
		loader:       NewPageLoader(searcher, store, cfg.CatalogPageSize),
		covers:       covers,
		store:        store,
		sink:         sink,
		popularQuery: cfg.CatalogPopularQuery,
		log:          logger.New().Root(logger.Data{"component": "catalog"}),
		now:          time.Now,
		queue:        dispatch.New("catalog"),
		coverTasks:   map[string]*coverTask{},
	}
	c.state.HasMorePages = true
	c.snapshot = c.state
	return c
}

// State returns the paging state as of the last processed call. It's safe to
// call from anywhere, including a Sink.
func (c *Coordinator) State() State {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()
	return c.snapshot
}

// Search starts a new search. A blank query cancels the current one and
// goes idle without clearing anything the caller shows.
func (c *Coordinator) Search(query string) {
	c.queue.Async(func() {
		query = strings.TrimSpace(query)
		c.stopSearch()
		if query == "" {
			c.state.Mode = ModeIdle
			c.state.Query = ""
			c.publish()
			return
		}
		c.reset(ModeSearch, query)
	})
}

// LoadPopular browses the popular books list.
func (c *Coordinator) LoadPopular() {
	c.queue.Async(func() {
		c.stopSearch()
		c.reset(ModePopular, c.popularQuery)
	})
}

// LoadNextPage requests the page after the last loaded one. It does nothing
// while a page is loading or after the last page.
func (c *Coordinator) LoadNextPage() {
	c.queue.Async(func() {
		if c.state.Mode == ModeIdle || !c.state.HasMorePages || c.state.IsLoadingPage {
			return
		}
		c.loadPage(c.state.Page+1, false)
	})
}

// CancelSearch abandons the in-flight page, if any, and goes idle.
func (c *Coordinator) CancelSearch() {
	c.queue.Async(func() {
		c.stopSearch()
		c.state = State{Mode: ModeIdle, HasMorePages: true}
		c.publish()
	})
}

// LoadCover loads the cover at url for a book. A cached cover is emitted
// straight away; a second call for a book whose cover is still loading is
// dropped.
func (c *Coordinator) LoadCover(bookID, url string) {
	c.queue.Async(func() {
		if url == "" {
			return
		}
		if img := c.covers.Cached(url); img != nil {
			c.sink(CoverLoaded{BookID: bookID, Image: img})
			return
		}
		if _, ok := c.coverTasks[bookID]; ok {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		task := &coverTask{cancel: cancel}
		c.coverTasks[bookID] = task

		c.goAsync(func() {
			img, err := c.covers.Load(ctx, url)
			c.queue.Async(func() {
				c.finishCover(bookID, task, img, err)
			})
		})
	})
}

// CancelCoverLoad stops loading a book's cover. It's safe to call for a
// book with nothing in flight.
func (c *Coordinator) CancelCoverLoad(bookID string) {
	c.queue.Async(func() {
		if task, ok := c.coverTasks[bookID]; ok {
			task.cancel()
			delete(c.coverTasks, bookID)
		}
	})
}

// UpdateBookState saves the user's status and favorite flag for a catalog
// book. coverData replaces any stored cover bytes. Failures are returned,
// never retried.
func (c *Coordinator) UpdateBookState(ctx context.Context, book *models.Book, status models.ReadingStatus, isFavorite bool, coverData []byte) (*models.LocalBook, error) {
	lb := models.NewLocalBook(book, status, isFavorite, coverData)
	lb.DateAdded = c.now().UTC()
	if err := c.store.Upsert(ctx, lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// Close cancels the in-flight search and cover loads and waits for their
// goroutines. Calls made after Close are ignored.
func (c *Coordinator) Close() {
	c.queue.Async(func() {
		c.stopSearch()
		for id, task := range c.coverTasks {
			task.cancel()
			delete(c.coverTasks, id)
		}
		c.publish()
	})
	c.queue.Close()
	c.wg.Wait()
}

func (c *Coordinator) reset(mode Mode, query string) {
	c.state.Mode = mode
	c.state.Query = query
	c.state.Page = 0
	c.state.HasMorePages = true
	c.loadPage(1, true)
}

func (c *Coordinator) loadPage(page int, isReset bool) {
	c.searchSeq++
	seq := c.searchSeq
	query := c.state.Query

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelSearch = cancel
	c.state.IsLoadingPage = true
	c.publish()

	c.goAsync(func() {
		defer cancel()
		ctx = c.log.WithContext(ctx)
		result, err := c.loader.Load(ctx, query, page, 0)
		c.queue.Async(func() {
			c.finishPage(seq, isReset, result, err)
		})
	})
}

func (c *Coordinator) finishPage(seq uint64, isReset bool, page *Page, err error) {
	if seq != c.searchSeq {
		// Superseded or cancelled; a newer load owns the state now.
		return
	}
	c.cancelSearch = nil
	c.state.IsLoadingPage = false

	if err != nil {
		c.publish()
		if errcodes.IsCancelled(err) {
			return
		}
		c.log.Err(err).Warn("catalog page failed", logger.Data{
			"mode":  c.state.Mode.String(),
			"query": c.state.Query,
		})
		c.sink(SearchFailed{Err: err, Message: errcodes.Message(err)})
		return
	}

	c.state.Page = page.Number
	c.state.HasMorePages = page.HasMorePages
	c.publish()

	c.sink(BooksLoaded{
		Books:        page.Books,
		Items:        page.Items,
		LocalState:   page.LocalState,
		IsReset:      isReset,
		Page:         page.Number,
		HasMorePages: page.HasMorePages,
	})
}

func (c *Coordinator) finishCover(bookID string, task *coverTask, img *imagecache.Image, err error) {
	if c.coverTasks[bookID] != task {
		return
	}
	delete(c.coverTasks, bookID)
	task.cancel()

	if err != nil {
		if errcodes.IsCancelled(err) {
			return
		}
		c.log.Err(err).Warn("cover load failed", logger.Data{"book_id": bookID})
		c.sink(CoverFailed{BookID: bookID, Err: err})
		return
	}
	c.sink(CoverLoaded{BookID: bookID, Image: img})
}

// stopSearch cancels the in-flight page. Bumping the sequence makes sure a
// result that was already on its way is dropped.
func (c *Coordinator) stopSearch() {
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	c.searchSeq++
	c.state.IsLoadingPage = false
}

func (c *Coordinator) publish() {
	c.snapshotMu.Lock()
	c.snapshot = c.state
	c.snapshotMu.Unlock()
}

func (c *Coordinator) goAsync(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}
