package books

type ListBooksQuery struct {
	Filter string `query:"filter" json:"filter,omitempty" default:"all" validate:"oneof=all reading done"`
}

type UpsertBookPayload struct {
	Title            string `json:"title" mod:"trim" validate:"required,max=500"`
	Author           string `json:"author" mod:"trim" validate:"max=300"`
	CoverID          *int   `json:"cover_id,omitempty" validate:"omitempty,min=1"`
	FirstPublishYear *int   `json:"first_publish_year,omitempty"`
	ReadingStatus    string `json:"reading_status,omitempty" default:"none" validate:"reading_status"`
	IsFavorite       bool   `json:"is_favorite"`
}

type UpdateStatusPayload struct {
	Status string `json:"status" validate:"required,reading_status"`
}

type ToggleFavoritePayload struct {
	IsFavorite *bool `json:"is_favorite" validate:"required"`
}
