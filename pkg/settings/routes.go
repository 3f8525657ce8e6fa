package settings

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, settingsService *Service) {
	h := &handler{
		settingsService: settingsService,
	}

	g := e.Group("/settings")

	g.GET("/theme", h.getTheme)
	g.PUT("/theme", h.updateTheme)
}
