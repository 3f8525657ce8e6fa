package imagecache

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	err   error
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{data: map[string][]byte{}, calls: map[string]int{}}
}

func (f *fakeFetcher) FetchData(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[url]
	if !ok {
		return nil, errcodes.Server(404)
	}
	return data, nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestCache(maxEntries, maxCost int, f Fetcher) *Cache {
	cfg := config.NewForTest()
	cfg.ImageCacheMaxEntries = maxEntries
	cfg.ImageCacheMaxCostBytes = maxCost
	return New(cfg, f)
}

func TestLoad_CachesAfterFirstFetch(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.data["a"] = pngBytes(t, 10, 20)
	c := newTestCache(10, 1<<20, f)
	ctx := context.Background()

	assert.Nil(t, c.Cached("a"))

	img, err := c.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, 10*20*4, img.Cost())

	again, err := c.Load(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Same(t, img, c.Cached("a"))
	assert.Equal(t, 1, f.callCount("a"))
}

func TestLoad_EvictsByCount(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	for _, u := range []string{"a", "b", "c"} {
		f.data[u] = pngBytes(t, 1, 1)
	}
	c := newTestCache(2, 1<<20, f)
	ctx := context.Background()

	_, err := c.Load(ctx, "a")
	require.NoError(t, err)
	_, err = c.Load(ctx, "b")
	require.NoError(t, err)

	// Touch a so that b is the least recently used.
	require.NotNil(t, c.Cached("a"))

	_, err = c.Load(ctx, "c")
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, c.Cached("a"))
	assert.Nil(t, c.Cached("b"))
	assert.NotNil(t, c.Cached("c"))
}

func TestLoad_EvictsByCost(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.data["small"] = pngBytes(t, 2, 2) // 16 bytes
	f.data["big"] = pngBytes(t, 4, 4)   // 64 bytes
	f.data["huge"] = pngBytes(t, 8, 8)  // 256 bytes
	c := newTestCache(100, 80, f)
	ctx := context.Background()

	_, err := c.Load(ctx, "small")
	require.NoError(t, err)
	_, err = c.Load(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, 80, c.TotalCost())

	_, err = c.Load(ctx, "small")
	require.NoError(t, err)
	assert.Equal(t, 1, f.callCount("small"))

	// Too big to ever fit: returned but not kept, and nothing is evicted.
	img, err := c.Load(ctx, "huge")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Nil(t, c.Cached("huge"))
	assert.Equal(t, 2, c.Len())

	f.data["medium"] = pngBytes(t, 3, 3) // 36 bytes
	_, err = c.Load(ctx, "medium")
	require.NoError(t, err)
	assert.LessOrEqual(t, c.TotalCost(), 80)
	assert.Nil(t, c.Cached("big"), "big was least recently used")
	assert.NotNil(t, c.Cached("small"))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.data["text"] = []byte("definitely not an image")
	f.data["truncated"] = pngBytes(t, 4, 4)[:12]
	c := newTestCache(10, 1<<20, f)
	ctx := context.Background()

	_, err := c.Load(ctx, "missing")
	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "server_error", e.Code)

	_, err = c.Load(ctx, "text")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "decoding_error", e.Code)

	_, err = c.Load(ctx, "truncated")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "decoding_error", e.Code)

	assert.Zero(t, c.Len())
}

func TestLoad_ConcurrentUse(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	urls := []string{"a", "b", "c", "d", "e"}
	for _, u := range urls {
		f.data[u] = pngBytes(t, 2, 2)
	}
	c := newTestCache(3, 1<<20, f)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := urls[i%len(urls)]
			if _, err := c.Load(context.Background(), u); err != nil {
				t.Error(err)
			}
			c.Cached(u)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 3)
	assert.Equal(t, c.Len()*16, c.TotalCost())
}
