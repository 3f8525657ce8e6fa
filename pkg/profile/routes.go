package profile

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, aggregator *Aggregator) {
	h := &handler{aggregator: aggregator}

	e.GET("/profile", h.retrieve)
}
