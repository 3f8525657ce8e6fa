package catalog

type SearchQuery struct {
	Q     string `query:"q" json:"q" mod:"trim"`
	Page  int    `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
	Limit int    `query:"limit" json:"limit,omitempty" validate:"min=0,max=100"`
}

type PopularQuery struct {
	Page int `query:"page" json:"page,omitempty" default:"1" validate:"min=1"`
}
