package notes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/errcodes"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// Editor covers what a user does with notes: write, edit, list, reorder and
// delete them. Text is trimmed and blank text is rejected before it reaches
// the store.
type Editor struct {
	store *Service
	now   func() time.Time
}

func NewEditor(store *Service) *Editor {
	return &Editor{
		store: store,
		now:   time.Now,
	}
}

// CreateNote appends a new note to the book.
func (e *Editor) CreateNote(ctx context.Context, bookID, text string) (*models.BookNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errcodes.EmptyInput()
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	now := e.now()
	note := &models.BookNote{
		ID:        id.String(),
		BookID:    bookID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	if err := e.store.Add(ctx, note); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("created note", logger.Data{"note_id": note.ID, "book_id": bookID})
	return note, nil
}

// UpdateNote replaces a note's text and stamps it as edited now.
func (e *Editor) UpdateNote(ctx context.Context, id, text string) (*models.BookNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errcodes.EmptyInput()
	}

	if err := e.store.UpdateText(ctx, id, text, e.now()); err != nil {
		return nil, err
	}
	return e.store.Retrieve(ctx, id)
}

// List returns a book's notes in manual order.
func (e *Editor) List(ctx context.Context, bookID string) ([]*models.BookNote, error) {
	return e.store.FetchNotes(ctx, bookID, models.NotesSortManual)
}

// Reorder applies a new manual order and returns the resulting list.
func (e *Editor) Reorder(ctx context.Context, bookID string, orderedIDs []string) ([]*models.BookNote, error) {
	if err := e.store.UpdateOrder(ctx, bookID, orderedIDs); err != nil {
		return nil, err
	}
	return e.List(ctx, bookID)
}

func (e *Editor) DeleteNote(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}
