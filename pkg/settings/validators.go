package settings

type ThemePayload struct {
	Theme string `json:"theme" validate:"required,theme"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
