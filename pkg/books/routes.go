package books

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
// notes is used to clear a book's notes before the book itself is removed.
func RegisterRoutesWithGroup(g *echo.Group, bookService *Service, notes NotesRemover) {
	h := &handler{
		bookService: bookService,
		notes:       notes,
	}

	g.GET("", h.list)
	g.GET("/favorites", h.favorites)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.upsert)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/status", h.updateStatus)
	g.POST("/:id/favorite", h.toggleFavorite)
	g.GET("/:id/cover", h.cover)
	g.PUT("/:id/cover", h.updateCover)
}
