package binder

import (
	"github.com/go-playground/validator/v10"
	"github.com/readingdiary/diary/pkg/models"
)

// readingStatusValidator accepts the names of models.ReadingStatus values.
func readingStatusValidator(fl validator.FieldLevel) bool {
	_, err := models.ParseReadingStatus(fl.Field().String())
	return err == nil
}

func themeValidator(fl validator.FieldLevel) bool {
	return models.IsValidTheme(fl.Field().String())
}
