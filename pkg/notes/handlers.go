package notes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/models"
)

type handler struct {
	notesService *Service
	editor       *Editor
	recentLimit  int
}

type listResponse struct {
	Notes []*models.BookNote `json:"notes"`
	Total int                `json:"total"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListNotesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.notesService.FetchNotes(ctx, c.Param("id"), params.Sort)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, listResponse{notes, len(notes)}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := NotePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	note, err := h.editor.CreateNote(ctx, c.Param("id"), params.Text)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, note))
}

func (h *handler) clear(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.notesService.DeleteAllNotes(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) reorder(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReorderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.editor.Reorder(ctx, c.Param("id"), params.NoteIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, listResponse{notes, len(notes)}))
}

func (h *handler) recent(c echo.Context) error {
	ctx := c.Request().Context()

	params := RecentNotesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	limit := params.Limit
	if limit == 0 {
		limit = h.recentLimit
	}

	notes, err := h.notesService.FetchRecentNotes(ctx, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, listResponse{notes, len(notes)}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := NotePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	note, err := h.editor.UpdateNote(ctx, c.Param("id"), params.Text)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, note))
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.editor.DeleteNote(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
