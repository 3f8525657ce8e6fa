package notes

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the per-book note routes on the books group and
// the note routes on the notes group. recentLimit is used when
// /notes/recent is called without a limit.
func RegisterRoutes(books, notes *echo.Group, svc *Service, recentLimit int) {
	h := &handler{
		notesService: svc,
		editor:       NewEditor(svc),
		recentLimit:  recentLimit,
	}

	books.GET("/:id/notes", h.list)
	books.POST("/:id/notes", h.create)
	books.DELETE("/:id/notes", h.clear)
	books.PUT("/:id/notes/order", h.reorder)

	notes.GET("/recent", h.recent)
	notes.PUT("/:id", h.update)
	notes.DELETE("/:id", h.remove)
}
