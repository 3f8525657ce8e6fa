package profile

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	aggregator *Aggregator
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.aggregator.LoadProfile(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, p))
}
