package catalog

import (
	"github.com/readingdiary/diary/pkg/imagecache"
	"github.com/readingdiary/diary/pkg/models"
)

// Event is emitted by a Coordinator. It's one of BooksLoaded, SearchFailed,
// CoverLoaded or CoverFailed.
type Event interface {
	event()
}

// Sink receives events on the coordinator's queue. It must not block for
// long and must not call back into the coordinator synchronously.
type Sink func(Event)

// BooksLoaded carries a loaded page. IsReset means it replaces what the
// caller has shown so far rather than being appended to it.
type BooksLoaded struct {
	Books        []*models.Book
	Items        []*Item
	LocalState   map[string]*models.LocalBook
	IsReset      bool
	Page         int
	HasMorePages bool
}

// SearchFailed is never emitted for a cancelled search.
type SearchFailed struct {
	Err     error
	Message string
}

type CoverLoaded struct {
	BookID string
	Image  *imagecache.Image
}

// CoverFailed means the caller should fall back to a placeholder.
type CoverFailed struct {
	BookID string
	Err    error
}

func (BooksLoaded) event()  {}
func (SearchFailed) event() {}
func (CoverLoaded) event()  {}
func (CoverFailed) event()  {}
