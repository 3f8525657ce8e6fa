package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/readingdiary/diary/pkg/binder"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/imagecache"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageResponse struct {
	Page         int  `json:"page"`
	HasMorePages bool `json:"has_more_pages"`
	Items        []struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		CoverURL      string `json:"cover_url"`
		ReadingStatus string `json:"reading_status"`
		IsFavorite    bool   `json:"is_favorite"`
	} `json:"items"`
}

func setupTestServer(t *testing.T, searcher *fakeSearcher, store *fakeStore, covers *fakeCovers) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutesWithGroup(e.Group("/catalog"), NewPageLoader(searcher, store, 20), covers, "bestseller")
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func emptyQueryAware(books []*models.Book) func(context.Context, searchCall) ([]*models.Book, error) {
	return func(_ context.Context, call searchCall) ([]*models.Book, error) {
		if strings.TrimSpace(call.query) == "" {
			return nil, errcodes.EmptyInput()
		}
		return books, nil
	}
}

func TestHandlers_Search(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher(emptyQueryAware(makeBooks("OL", 20)))
	store := newFakeStore(&models.LocalBook{ID: "OL1", ReadingStatus: models.ReadingStatusReading})
	e := setupTestServer(t, searcher, store, newFakeCovers())

	rr := doGet(e, "/catalog/search?q=+dune+&page=2")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := pageResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.HasMorePages)
	require.Len(t, resp.Items, 20)
	assert.Equal(t, "reading", resp.Items[1].ReadingStatus)
	assert.Equal(t, "none", resp.Items[0].ReadingStatus)
	assert.Equal(t, searchCall{"dune", 2, 20}, <-searcher.started)
}

func TestHandlers_SearchValidation(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher(emptyQueryAware(nil))
	e := setupTestServer(t, searcher, newFakeStore(), newFakeCovers())

	rr := doGet(e, "/catalog/search?q=++")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "empty_input")

	rr = doGet(e, "/catalog/search?q=dune&limit=500")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doGet(e, "/catalog/search?q=dune&page=abc")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandlers_SearchUpstreamError(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher(func(context.Context, searchCall) ([]*models.Book, error) {
		return nil, errcodes.Server(500)
	})
	e := setupTestServer(t, searcher, newFakeStore(), newFakeCovers())

	rr := doGet(e, "/catalog/search?q=dune")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "server_error")
}

func TestHandlers_Popular(t *testing.T) {
	t.Parallel()

	searcher := newFakeSearcher(emptyQueryAware(makeBooks("OL", 3)))
	e := setupTestServer(t, searcher, newFakeStore(), newFakeCovers())

	rr := doGet(e, "/catalog/popular")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := pageResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.False(t, resp.HasMorePages)
	assert.Equal(t, searchCall{"bestseller", 1, 20}, <-searcher.started)
}

func TestHandlers_Cover(t *testing.T) {
	t.Parallel()

	covers := newFakeCovers()
	url := "https://covers.openlibrary.org/b/id/42-L.jpg"
	covers.images[url] = &imagecache.Image{URL: url, Data: []byte("jpeg bytes"), MimeType: "image/jpeg"}
	e := setupTestServer(t, newFakeSearcher(returning(nil)), newFakeStore(), covers)

	rr := doGet(e, "/catalog/covers/42")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "jpeg bytes", rr.Body.String())

	rr = doGet(e, "/catalog/covers/abc")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doGet(e, "/catalog/covers/43")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
