package catalog

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers the catalog browsing routes. Each request
// loads a single page; paging state lives with the client.
func RegisterRoutesWithGroup(g *echo.Group, loader *PageLoader, covers CoverLoader, popularQuery string) {
	h := &handler{
		loader:       loader,
		covers:       covers,
		popularQuery: popularQuery,
	}

	g.GET("/search", h.search)
	g.GET("/popular", h.popular)
	g.GET("/covers/:coverID", h.cover)
}
