package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	//tygo:emit export type NotesSort = typeof NotesSortManual | typeof NotesSortCreatedAt | typeof NotesSortUpdatedAt;
	NotesSortManual    = "manual"
	NotesSortCreatedAt = "created_at"
	NotesSortUpdatedAt = "updated_at"
)

type BookNote struct {
	bun.BaseModel `bun:"table:book_notes,alias:bn" tstype:"-"`

	ID         string     `bun:",pk" json:"id"`
	BookID     string     `bun:",notnull" json:"book_id"`
	Text       string     `bun:",notnull" json:"text"`
	CreatedAt  time.Time  `bun:",notnull" json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
	OrderIndex int        `bun:",notnull" json:"order_index"`
}
