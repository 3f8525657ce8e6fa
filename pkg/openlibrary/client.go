// Package openlibrary talks to the Open Library search API and cover host.
package openlibrary

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/readingdiary/diary/pkg/version"
	"golang.org/x/time/rate"
)

const (
	searchPath   = "search.json"
	searchFields = "key,title,author_name,cover_i,first_publish_year"

	// maxResponseBytes caps what we read from a single response, covers
	// included.
	maxResponseBytes = 20 << 20
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// New builds a client from the catalog settings in cfg. A zero
// CatalogRequestsPerSecond disables client-side rate limiting.
func New(cfg *config.Config) (*Client, error) {
	base, err := url.Parse(cfg.CatalogBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errcodes.InvalidRequest("bad catalog base URL " + strconv.Quote(cfg.CatalogBaseURL))
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		timeout: cfg.CatalogTimeout,
	}
	if cfg.CatalogRequestsPerSecond > 0 {
		burst := max(1, int(cfg.CatalogRequestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.CatalogRequestsPerSecond), burst)
	}
	return c, nil
}

// Search runs a free-text search and returns one page of works. page and
// limit are clamped to at least 1. Records without an id or a title are
// dropped.
func (c *Client) Search(ctx context.Context, query string, page, limit int) ([]*models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errcodes.EmptyInput()
	}

	u := c.baseURL.JoinPath(searchPath)
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(max(1, page)))
	params.Set("limit", strconv.Itoa(max(1, limit)))
	params.Set("fields", searchFields)
	u.RawQuery = params.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	return decodeSearch(ctx, body)
}

// FetchData downloads the raw bytes at rawURL, e.g. a cover image.
func (c *Client) FetchData(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errcodes.InvalidRequest("bad URL " + strconv.Quote(rawURL))
	}
	return c.get(ctx, u.String())
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errcodes.Transport(contextErr(ctx, err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errcodes.InvalidRequest(err.Error())
	}
	req.Header.Set("Accept", "application/json, image/*;q=0.9, */*;q=0.8")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errcodes.Transport(errors.WithStack(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, errcodes.Server(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errcodes.Transport(errors.WithStack(err))
	}
	return body, nil
}

// contextErr prefers the context's own error so that a cancelled caller is
// recognisable as such. rate.Limiter reports a cancelled wait with its own
// error text.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.WithStack(ctxErr)
	}
	return errors.WithStack(err)
}
