package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/book-wordfreq/internal/count"
	"github.com/dtnitsch/book-wordfreq/internal/db"
	"github.com/dtnitsch/book-wordfreq/internal/stages"
	"github.com/dtnitsch/book-wordfreq/pkg/help"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	commands := stages.Commands()
	commands = append(commands,
		count.Command(),
		db.Command(),
		&cli.Command{
			Name:  "quickstart",
			Usage: "Print a YAML cheat-sheet",
			Action: func(c *cli.Context) error {
				_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
				return err
			},
		},
	)

	return &cli.App{
		Name:  "book-wordfreq",
		Usage: "Word frequencies from digitized books, with boilerplate and tables of contents stripped",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Commands: commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
