package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/binder"
	"github.com/readingdiary/diary/pkg/books"
	"github.com/readingdiary/diary/pkg/catalog"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/notes"
	"github.com/readingdiary/diary/pkg/profile"
	"github.com/readingdiary/diary/pkg/settings"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

func New(cfg *config.Config, svcs *Services) (*http.Server, error) {
	e, err := newEcho(cfg, svcs)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, svcs *Services) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, svcs.Books, svcs.Notes)
	notes.RegisterRoutes(booksGroup, e.Group("/notes"), svcs.Notes, cfg.RecentNotesLimit)

	loader := catalog.NewPageLoader(svcs.Catalog, svcs.Books, cfg.CatalogPageSize)
	catalog.RegisterRoutesWithGroup(e.Group("/catalog"), loader, svcs.Covers, cfg.CatalogPopularQuery)

	profile.RegisterRoutes(e, svcs.Profile)
	settings.RegisterRoutes(e, svcs.Settings)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
