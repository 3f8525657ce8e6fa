package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/readingdiary/diary/pkg/books"
	"github.com/readingdiary/diary/pkg/models"
	"github.com/urfave/cli/v2"
)

func favoriteCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "mark a book as a favorite",
		ArgsUsage: "<book-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "off", Usage: "remove from favorites instead"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: diary favorite <book-id> [--off]", 1)
			}
			return e.svcs.Books.ToggleFavorite(c.Context, c.Args().First(), !c.Bool("off"))
		},
	}
}

func statusCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "set the reading status of a saved book",
		ArgsUsage: "<book-id> <none|reading|done>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: diary status <book-id> <none|reading|done>", 1)
			}
			status, err := models.ParseReadingStatus(c.Args().Get(1))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return e.svcs.Books.UpdateStatus(c.Context, c.Args().First(), status)
		},
	}
}

func booksCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "list the books you're reading or have read",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Value: books.FilterAll, Usage: "all, reading or done"},
		},
		Action: func(c *cli.Context) error {
			list, err := e.svcs.Books.FetchMyBooks(c.Context, c.String("filter"))
			if err != nil {
				return err
			}
			printBooks(c.App.Writer, list)
			return nil
		},
	}
}

func favoritesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "list favorite books",
		Action: func(c *cli.Context) error {
			list, err := e.svcs.Books.FetchFavorites(c.Context)
			if err != nil {
				return err
			}
			printBooks(c.App.Writer, list)
			return nil
		},
	}
}

func printBooks(w io.Writer, list []*models.LocalBook) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.ReadingStatus, b.DateAdded.Local().Format("2006-01-02"))
	}
	tw.Flush()
}
