package main

import (
	"fmt"

	"github.com/readingdiary/diary/pkg/models"
	"github.com/urfave/cli/v2"
)

func profileCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "show reading statistics",
		Action: func(c *cli.Context) error {
			p, err := e.svcs.Profile.LoadProfile(c.Context)
			if err != nil {
				return err
			}
			w := c.App.Writer
			fmt.Fprintln(w, p.DisplayName)
			fmt.Fprintf(w, "favorites: %d\nreading:   %d\ndone:      %d\n", p.FavoritesCount, p.ReadingCount, p.DoneCount)
			if p.CurrentReading != nil {
				fmt.Fprintf(w, "currently reading: %s\n", p.CurrentReading.Title)
			}
			if p.LastFinished != nil {
				fmt.Fprintf(w, "last finished:     %s\n", p.LastFinished.Title)
			}
			return nil
		},
	}
}

func themeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "show or set the app theme",
		ArgsUsage: "[system|light|dark]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				theme, err := e.svcs.Settings.Theme(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, theme)
				return nil
			}
			theme := c.Args().First()
			if !models.IsValidTheme(theme) {
				return cli.Exit(fmt.Sprintf("unknown theme %q", theme), 1)
			}
			return e.svcs.Settings.SetTheme(c.Context, theme)
		},
	}
}
