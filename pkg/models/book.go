package models

import "fmt"

// UnknownAuthor is shown when the catalog has no author for a work.
const UnknownAuthor = "—"

const coverURLTemplate = "https://covers.openlibrary.org/b/id/%d-L.jpg"

// Book is a work as returned by the remote catalog. It's never persisted on
// its own; see LocalBook.
type Book struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	CoverID          *int   `json:"cover_id,omitempty"`
	FirstPublishYear *int   `json:"first_publish_year,omitempty"`
}

// CoverURL returns the large cover image URL, or "" when the work has no
// cover.
func (b *Book) CoverURL() string {
	if b.CoverID == nil {
		return ""
	}
	return fmt.Sprintf(coverURLTemplate, *b.CoverID)
}
