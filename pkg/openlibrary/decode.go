package openlibrary

import (
	"context"
	"strings"

	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/htmlutil"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const workKeyPrefix = "/works/"

type searchResponse struct {
	NumFound int               `json:"numFound"`
	Start    int               `json:"start"`
	Docs     []json.RawMessage `json:"docs"`
}

type searchDoc struct {
	Key              *string  `json:"key"`
	Title            *string  `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverID          *int     `json:"cover_i"`
	FirstPublishYear *int     `json:"first_publish_year"`
}

// decodeSearch decodes a search payload. Each doc is decoded on its own so
// one bad record only drops that record.
func decodeSearch(ctx context.Context, body []byte) ([]*models.Book, error) {
	resp := searchResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errcodes.Decoding(err)
	}

	books := make([]*models.Book, 0, len(resp.Docs))
	dropped := 0
	for _, raw := range resp.Docs {
		doc := searchDoc{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			dropped++
			continue
		}
		book, ok := doc.toBook()
		if !ok {
			dropped++
			continue
		}
		books = append(books, book)
	}

	if dropped > 0 {
		logger.FromContext(ctx).Debug("dropped malformed catalog records", logger.Data{
			"dropped":   dropped,
			"kept":      len(books),
			"num_found": resp.NumFound,
		})
	}

	return books, nil
}

func (d *searchDoc) toBook() (*models.Book, bool) {
	var id, title string
	if d.Key != nil {
		id = strings.TrimSpace(strings.ReplaceAll(*d.Key, workKeyPrefix, ""))
	}
	if d.Title != nil {
		title = htmlutil.CleanText(*d.Title)
	}
	if id == "" || title == "" {
		return nil, false
	}

	author := ""
	if len(d.AuthorName) > 0 {
		author = htmlutil.CleanText(d.AuthorName[0])
	}
	if author == "" {
		author = models.UnknownAuthor
	}

	return &models.Book{
		ID:               id,
		Title:            title,
		Author:           author,
		CoverID:          d.CoverID,
		FirstPublishYear: d.FirstPublishYear,
	}, true
}
