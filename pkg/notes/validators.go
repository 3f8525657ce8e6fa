package notes

type ListNotesQuery struct {
	Sort string `query:"sort" json:"sort,omitempty" default:"manual" validate:"oneof=manual created_at updated_at"`
}

type RecentNotesQuery struct {
	Limit int `query:"limit" json:"limit,omitempty" validate:"min=0,max=100"`
}

type NotePayload struct {
	Text string `json:"text" validate:"max=10000"`
}

type ReorderPayload struct {
	NoteIDs []string `json:"note_ids" validate:"max=1000"`
}
