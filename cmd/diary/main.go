package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/config"
	"github.com/readingdiary/diary/pkg/database"
	"github.com/readingdiary/diary/pkg/migrations"
	"github.com/readingdiary/diary/pkg/server"
	"github.com/readingdiary/diary/pkg/version"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// env is what every command runs against. It's opened in Before and closed
// in After.
type env struct {
	cfg  *config.Config
	db   *bun.DB
	svcs *server.Services
}

func main() {
	log := logger.New()
	e := &env{}

	app := &cli.App{
		Name:    "diary",
		Usage:   "keep a reading diary from the terminal",
		Version: version.Version,
		Before:  e.open,
		After:   e.close,
		Commands: []*cli.Command{
			searchCommand(e),
			popularCommand(e),
			favoriteCommand(e),
			statusCommand(e),
			booksCommand(e),
			favoritesCommand(e),
			notesCommand(e),
			profileCommand(e),
			themeCommand(e),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Err(err).Fatal("diary error")
	}
}

func (e *env) open(c *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config error")
	}
	db, err := database.New(cfg)
	if err != nil {
		return errors.Wrap(err, "database error")
	}
	if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
		return errors.Wrap(err, "migrations error")
	}
	svcs, err := server.NewServices(cfg, db)
	if err != nil {
		return errors.WithStack(err)
	}

	e.cfg = cfg
	e.db = db
	e.svcs = svcs
	return nil
}

func (e *env) close(_ *cli.Context) error {
	if e.svcs != nil {
		e.svcs.Close()
	}
	if e.db != nil {
		return errors.WithStack(e.db.Close())
	}
	return nil
}
