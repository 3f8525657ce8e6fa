package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	//tygo:emit export type Theme = typeof ThemeSystem | typeof ThemeLight | typeof ThemeDark;
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

const SettingKeyTheme = "theme"

// Setting is a single persisted preference.
type Setting struct {
	bun.BaseModel `bun:"table:settings,alias:s" tstype:"-"`

	Key       string    `bun:",pk" json:"key"`
	Value     string    `bun:",notnull" json:"value"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func IsValidTheme(theme string) bool {
	switch theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}
