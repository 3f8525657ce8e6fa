package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/readingdiary/diary/pkg/catalog"
	"github.com/urfave/cli/v2"
)

var pagesFlag = &cli.IntFlag{
	Name:  "pages",
	Value: 1,
	Usage: "number of result pages to load",
}

func searchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search the catalog",
		ArgsUsage: "<query>",
		Flags:     []cli.Flag{pagesFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: diary search <query>", 1)
			}
			return e.browse(c, func(co *catalog.Coordinator) { co.Search(c.Args().First()) })
		},
	}
}

func popularCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "browse popular books",
		Flags: []cli.Flag{pagesFlag},
		Action: func(c *cli.Context) error {
			return e.browse(c, func(co *catalog.Coordinator) { co.LoadPopular() })
		},
	}
}

// browse starts a coordinator session and prints pages until --pages have
// been shown or the results run out.
func (e *env) browse(c *cli.Context, start func(*catalog.Coordinator)) error {
	events := make(chan catalog.Event, 16)
	co := catalog.NewCoordinator(e.cfg, e.svcs.Catalog, e.svcs.Covers, e.svcs.Books, channelSink(events))
	defer co.Close()

	start(co)
	for shown := 0; shown < c.Int("pages"); shown++ {
		if shown > 0 {
			co.LoadNextPage()
		}
		loaded, err := nextPage(c.Context, events)
		if err != nil {
			return err
		}
		printItems(c.App.Writer, loaded)
		if !loaded.HasMorePages {
			break
		}
	}
	return nil
}

// channelSink never blocks the coordinator's queue. Events nobody is waiting
// for are dropped, so Close cannot hang behind a full channel.
func channelSink(events chan<- catalog.Event) catalog.Sink {
	return func(ev catalog.Event) {
		select {
		case events <- ev:
		default:
		}
	}
}

func nextPage(ctx context.Context, events <-chan catalog.Event) (*catalog.BooksLoaded, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case ev := <-events:
			switch ev := ev.(type) {
			case catalog.BooksLoaded:
				return &ev, nil
			case catalog.SearchFailed:
				return nil, cli.Exit(ev.Message, 1)
			}
		}
	}
}

func printItems(w io.Writer, loaded *catalog.BooksLoaded) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "-- page %d --\n", loaded.Page)
	for _, item := range loaded.Items {
		fav := ""
		if item.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Author, item.ReadingStatus, fav)
	}
	tw.Flush()
}
