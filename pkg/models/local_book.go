package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LocalBook is a catalog work the user has touched: favorited, given a status,
// or explicitly saved.
type LocalBook struct {
	bun.BaseModel `bun:"table:local_books,alias:lb" tstype:"-"`

	ID               string        `bun:",pk" json:"id"`
	Title            string        `bun:",notnull" json:"title"`
	Author           string        `bun:",notnull" json:"author"`
	CoverID          *int          `json:"cover_id"`
	FirstPublishYear *int          `json:"first_publish_year"`
	CoverImageData   []byte        `json:"cover_image_data,omitempty"`
	ReadingStatus    ReadingStatus `bun:",notnull" json:"reading_status" tstype:"ReadingStatusName"`
	IsFavorite       bool          `bun:",notnull" json:"is_favorite"`
	DateAdded        time.Time     `bun:",notnull" json:"date_added"`
}

// NewLocalBook merges a catalog book with the user's state for it.
func NewLocalBook(book *Book, status ReadingStatus, isFavorite bool, cover []byte) *LocalBook {
	return &LocalBook{
		ID:               book.ID,
		Title:            book.Title,
		Author:           book.Author,
		CoverID:          book.CoverID,
		FirstPublishYear: book.FirstPublishYear,
		CoverImageData:   cover,
		ReadingStatus:    status,
		IsFavorite:       isFavorite,
		DateAdded:        time.Now(),
	}
}

func (lb *LocalBook) Book() *Book {
	return &Book{
		ID:               lb.ID,
		Title:            lb.Title,
		Author:           lb.Author,
		CoverID:          lb.CoverID,
		FirstPublishYear: lb.FirstPublishYear,
	}
}
