package catalog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
)

type handler struct {
	loader       *PageLoader
	covers       CoverLoader
	popularQuery string
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.loader.Load(ctx, params.Q, params.Page, params.Limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) popular(c echo.Context) error {
	ctx := c.Request().Context()

	params := PopularQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.loader.Load(ctx, h.popularQuery, params.Page, 0)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) cover(c echo.Context) error {
	ctx := c.Request().Context()

	coverID, err := strconv.Atoi(c.Param("coverID"))
	if err != nil || coverID < 1 {
		return errcodes.NotFound("Cover")
	}

	book := &models.Book{CoverID: &coverID}
	img, err := h.covers.Load(ctx, book.CoverURL())
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return errors.WithStack(c.Blob(http.StatusOK, img.MimeType, img.Data))
}
