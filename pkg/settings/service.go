package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/dispatch"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Service stores user preferences. Like the other stores it runs every call
// on its own queue.
type Service struct {
	db    *bun.DB
	queue *dispatch.Queue
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:    db,
		queue: dispatch.New("settings"),
	}
}

func (svc *Service) Close() {
	svc.queue.Close()
}

// Theme returns the saved theme, or ThemeSystem if none is saved. A saved
// value that's no longer a known theme is ignored.
func (svc *Service) Theme(ctx context.Context) (string, error) {
	setting := &models.Setting{}
	err := svc.queue.Do(ctx, func(ctx context.Context) error {
		return errors.WithStack(svc.db.
			NewSelect().
			Model(setting).
			Where("s.key = ?", models.SettingKeyTheme).
			Scan(ctx))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThemeSystem, nil
		}
		return "", err
	}

	if !models.IsValidTheme(setting.Value) {
		logger.FromContext(ctx).Warn("ignoring unknown theme", logger.Data{"value": setting.Value})
		return models.ThemeSystem, nil
	}
	return setting.Value, nil
}

// SetTheme saves theme, which must be a known theme.
func (svc *Service) SetTheme(ctx context.Context, theme string) error {
	if !models.IsValidTheme(theme) {
		return errors.Errorf("unknown theme %q", theme)
	}

	setting := &models.Setting{
		Key:       models.SettingKeyTheme,
		Value:     theme,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.queue.Do(ctx, func(ctx context.Context) error {
		_, err := svc.db.
			NewInsert().
			Model(setting).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return errors.WithStack(err)
	})
}
