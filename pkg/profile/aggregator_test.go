package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/books"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/readingdiary/diary/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errFavorites = errors.New("favorites failed")
	errReading   = errors.New("reading failed")
)

type fakeStore struct {
	favorites func(ctx context.Context) ([]*models.LocalBook, error)
	byFilter  func(ctx context.Context, filter string) ([]*models.LocalBook, error)
}

func (f *fakeStore) FetchFavorites(ctx context.Context) ([]*models.LocalBook, error) {
	return f.favorites(ctx)
}

func (f *fakeStore) FetchMyBooks(ctx context.Context, filter string) ([]*models.LocalBook, error) {
	return f.byFilter(ctx, filter)
}

func newAggregator(store BookStore) *Aggregator {
	cfg := config.NewForTest()
	cfg.DisplayName = "Ada"
	return NewAggregator(cfg, store)
}

func newBook(id string, status models.ReadingStatus, fav bool, added time.Time) *models.LocalBook {
	return &models.LocalBook{
		ID:            id,
		Title:         "Title " + id,
		Author:        "Author " + id,
		ReadingStatus: status,
		IsFavorite:    fav,
		DateAdded:     added,
	}
}

func TestLoadProfile_WithBookStore(t *testing.T) {
	t.Parallel()

	svc := books.NewService(testutils.NewDB(t))
	t.Cleanup(svc.Close)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, b := range []*models.LocalBook{
		newBook("r-old", models.ReadingStatusReading, true, base),
		newBook("r-new", models.ReadingStatusReading, false, base.Add(time.Hour)),
		newBook("d-new", models.ReadingStatusDone, true, base.Add(2*time.Hour)),
		newBook("d-old", models.ReadingStatusDone, false, base.Add(-time.Hour)),
		newBook("none", models.ReadingStatusNone, true, base),
	} {
		require.NoError(t, svc.Upsert(ctx, b))
	}

	p, err := newAggregator(svc).LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, 3, p.FavoritesCount)
	assert.Equal(t, 2, p.ReadingCount)
	assert.Equal(t, 2, p.DoneCount)
	require.NotNil(t, p.CurrentReading)
	assert.Equal(t, "r-new", p.CurrentReading.ID)
	require.NotNil(t, p.LastFinished)
	assert.Equal(t, "d-new", p.LastFinished.ID)
}

func TestLoadProfile_Empty(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		favorites: func(context.Context) ([]*models.LocalBook, error) { return nil, nil },
		byFilter:  func(context.Context, string) ([]*models.LocalBook, error) { return nil, nil },
	}

	p, err := newAggregator(store).LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, p.FavoritesCount)
	assert.Nil(t, p.CurrentReading)
	assert.Nil(t, p.LastFinished)
}

func TestLoadProfile_FirstErrorWins(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		favorites: func(context.Context) ([]*models.LocalBook, error) {
			return nil, errFavorites
		},
		byFilter: func(ctx context.Context, filter string) ([]*models.LocalBook, error) {
			if filter == books.FilterReading {
				// Only fails once the group has given up.
				<-ctx.Done()
				return nil, errReading
			}
			return []*models.LocalBook{newBook("d", models.ReadingStatusDone, false, time.Now())}, nil
		},
	}

	p, err := newAggregator(store).LoadProfile(context.Background())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, errFavorites)
	assert.NotErrorIs(t, err, errReading)
}

func TestHandler_Profile(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		favorites: func(context.Context) ([]*models.LocalBook, error) {
			return []*models.LocalBook{newBook("f", models.ReadingStatusNone, true, time.Now())}, nil
		},
		byFilter: func(_ context.Context, filter string) ([]*models.LocalBook, error) {
			if filter == books.FilterReading {
				return []*models.LocalBook{newBook("r", models.ReadingStatusReading, false, time.Now())}, nil
			}
			return nil, nil
		},
	}

	e := echo.New()
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, newAggregator(store))

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		DisplayName    string `json:"display_name"`
		FavoritesCount int    `json:"favorites_count"`
		ReadingCount   int    `json:"reading_count"`
		CurrentReading *struct {
			ID string `json:"id"`
		} `json:"current_reading"`
		LastFinished *struct{} `json:"last_finished"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Ada", resp.DisplayName)
	assert.Equal(t, 1, resp.FavoritesCount)
	assert.Equal(t, 1, resp.ReadingCount)
	require.NotNil(t, resp.CurrentReading)
	assert.Equal(t, "r", resp.CurrentReading.ID)
	assert.Nil(t, resp.LastFinished)

	store.favorites = func(context.Context) ([]*models.LocalBook, error) { return nil, errFavorites }
	rr = httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
