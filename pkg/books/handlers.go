package books

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// maxCoverBytes bounds uploaded cover images.
const maxCoverBytes = 10 << 20

// NotesRemover deletes every note attached to a book.
type NotesRemover interface {
	DeleteAllNotes(ctx context.Context, bookID string) error
}

type handler struct {
	bookService *Service
	notes       NotesRemover
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.FetchMyBooks(ctx, params.Filter)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.LocalBook `json:"books"`
		Total int                 `json:"total"`
	}{books, len(books)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) favorites(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.FetchFavorites(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.LocalBook `json:"books"`
		Total int                 `json:"total"`
	}{books, len(books)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) upsert(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpsertBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	status, err := models.ParseReadingStatus(params.ReadingStatus)
	if err != nil {
		return errcodes.ValidationError(err.Error())
	}

	book := &models.LocalBook{
		ID:               id,
		Title:            params.Title,
		Author:           params.Author,
		CoverID:          params.CoverID,
		FirstPublishYear: params.FirstPublishYear,
		ReadingStatus:    status,
		IsFavorite:       params.IsFavorite,
	}
	if book.Author == "" {
		book.Author = models.UnknownAuthor
	}

	// Keep any cover bytes that were already stored for this book.
	existing, err := h.bookService.Retrieve(ctx, id)
	switch {
	case err == nil:
		book.CoverImageData = existing.CoverImageData
	case !errcodes.IsNotFound(err):
		return errors.WithStack(err)
	}

	if err := h.bookService.Upsert(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.notes.DeleteAllNotes(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	if err := h.bookService.Delete(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("removed book from diary", logger.Data{"book_id": id})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpdateStatusPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	status, err := models.ParseReadingStatus(params.Status)
	if err != nil {
		return errcodes.ValidationError(err.Error())
	}

	if err := h.bookService.UpdateStatus(ctx, id, status); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) toggleFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := ToggleFavoritePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookService.ToggleFavorite(ctx, id, *params.IsFavorite); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) cover(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if len(book.CoverImageData) == 0 {
		return errcodes.NotFound("Cover")
	}

	mime := mimetype.Detect(book.CoverImageData)
	return errors.WithStack(c.Blob(http.StatusOK, mime.String(), book.CoverImageData))
}

// updateCover stores the raw request body as the book's cover. An empty body
// clears it.
func (h *handler) updateCover(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCoverBytes+1))
	if err != nil {
		return errors.WithStack(err)
	}
	if len(data) > maxCoverBytes {
		return errcodes.ValidationError("Cover image is too large.")
	}

	if len(data) == 0 {
		data = nil
	} else if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return errcodes.UnsupportedMediaType()
	}

	if err := h.bookService.UpdateCoverData(ctx, id, data); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
