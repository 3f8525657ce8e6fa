package main

import (
	"fmt"

	"github.com/readingdiary/diary/pkg/models"
	"github.com/readingdiary/diary/pkg/notes"
	"github.com/urfave/cli/v2"
)

func notesCommand(e *env) *cli.Command {
	editor := func() *notes.Editor { return notes.NewEditor(e.svcs.Notes) }

	return &cli.Command{
		Name:  "notes",
		Usage: "manage notes on a book",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				ArgsUsage: "<book-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: models.NotesSortManual, Usage: "manual, created_at or updated_at"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: diary notes list <book-id>", 1)
					}
					list, err := e.svcs.Notes.FetchNotes(c.Context, c.Args().First(), c.String("sort"))
					if err != nil {
						return err
					}
					printNotes(c, list)
					return nil
				},
			},
			{
				Name:      "add",
				ArgsUsage: "<book-id> <text>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: diary notes add <book-id> <text>", 1)
					}
					note, err := editor().CreateNote(c.Context, c.Args().First(), c.Args().Get(1))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, note.ID)
					return nil
				},
			},
			{
				Name:      "edit",
				ArgsUsage: "<note-id> <text>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: diary notes edit <note-id> <text>", 1)
					}
					_, err := editor().UpdateNote(c.Context, c.Args().First(), c.Args().Get(1))
					return err
				},
			},
			{
				Name:      "rm",
				ArgsUsage: "<note-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: diary notes rm <note-id>", 1)
					}
					return editor().DeleteNote(c.Context, c.Args().First())
				},
			},
			{
				Name:      "reorder",
				ArgsUsage: "<book-id> <note-id>...",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.Exit("usage: diary notes reorder <book-id> <note-id>...", 1)
					}
					list, err := editor().Reorder(c.Context, c.Args().First(), c.Args().Tail())
					if err != nil {
						return err
					}
					printNotes(c, list)
					return nil
				},
			},
			{
				Name:      "clear",
				ArgsUsage: "<book-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: diary notes clear <book-id>", 1)
					}
					return e.svcs.Notes.DeleteAllNotes(c.Context, c.Args().First())
				},
			},
		},
	}
}

func printNotes(c *cli.Context, list []*models.BookNote) {
	for _, n := range list {
		fmt.Fprintf(c.App.Writer, "%d. [%s] %s (%s)\n", n.OrderIndex, n.ID, n.Text, n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
