package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

func (h *handler) getTheme(c echo.Context) error {
	ctx := c.Request().Context()

	theme, err := h.settingsService.Theme(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ThemeResponse{Theme: theme}))
}

func (h *handler) updateTheme(c echo.Context) error {
	ctx := c.Request().Context()

	var payload ThemePayload
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	if err := h.settingsService.SetTheme(ctx, payload.Theme); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, ThemeResponse{Theme: payload.Theme}))
}
