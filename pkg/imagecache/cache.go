// Package imagecache keeps decoded cover images in memory, bounded by both
// entry count and decoded size.
package imagecache

import (
	"bytes"
	"container/list"
	"context"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/errcodes"
	_ "golang.org/x/image/webp" // register decoder
)

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	FetchData(ctx context.Context, url string) ([]byte, error)
}

type Image struct {
	URL      string
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Cost is the size of the image once decoded to RGBA.
func (img *Image) Cost() int {
	return img.Width * img.Height * 4
}

// Cache is safe for concurrent use. Entries are evicted least recently used
// first whenever either bound is exceeded.
type Cache struct {
	fetcher    Fetcher
	maxEntries int
	maxCost    int

	mu    sync.Mutex
	lru   *list.List
	items map[string]*list.Element
	cost  int
}

func New(cfg *config.Config, fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:    fetcher,
		maxEntries: cfg.ImageCacheMaxEntries,
		maxCost:    cfg.ImageCacheMaxCostBytes,
		lru:        list.New(),
		items:      map[string]*list.Element{},
	}
}

// Cached returns the image for url if it's in memory, without any I/O.
func (c *Cache) Cached(url string) *Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[url]
	if !ok {
		return nil
	}
	c.lru.MoveToFront(el)
	return el.Value.(*Image)
}

// Load returns the image for url, fetching and decoding it on a miss.
func (c *Cache) Load(ctx context.Context, url string) (*Image, error) {
	if img := c.Cached(url); img != nil {
		return img, nil
	}

	data, err := c.fetcher.FetchData(ctx, url)
	if err != nil {
		return nil, err
	}

	img, err := Decode(url, data)
	if err != nil {
		return nil, err
	}

	c.add(img)
	return img, nil
}

// Len is the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// TotalCost is the summed Cost of the cached images.
func (c *Cache) TotalCost() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cost
}

func (c *Cache) add(img *Image) {
	cost := img.Cost()
	if cost > c.maxCost {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[img.URL]; ok {
		c.cost -= el.Value.(*Image).Cost()
		el.Value = img
		c.cost += cost
		c.lru.MoveToFront(el)
	} else {
		c.items[img.URL] = c.lru.PushFront(img)
		c.cost += cost
	}

	for c.lru.Len() > c.maxEntries || c.cost > c.maxCost {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		evicted := c.lru.Remove(oldest).(*Image)
		delete(c.items, evicted.URL)
		c.cost -= evicted.Cost()
	}
}

// Decode checks that data is an image and reads its dimensions.
func Decode(url string, data []byte) (*Image, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, errcodes.Decoding(errors.Errorf("not an image: %s", mime.String()))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errcodes.Decoding(errors.WithStack(err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errcodes.Decoding(errors.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}

	return &Image{
		URL:      url,
		Data:     data,
		MimeType: mime.String(),
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
