package stages

import (
	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Value:   string(mapreduce.ModeUnigram),
		Usage:   "Record mode: unigram or dimensional",
	}
}

// Commands returns the standalone pipeline stages. Each reads stdin and
// writes stdout so they can be chained with pipes.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "map",
			Usage: "Emit word records for one document on stdin",
			Flags: []cli.Flag{
				modeFlag(),
				&cli.StringFlag{
					Name:  "vocab",
					Usage: "Vocabulary file (first tab field per line); required in dimensional mode",
				},
				&cli.BoolFlag{
					Name:  "boundaries",
					Usage: "Apply start/end marker and table-of-contents detection in dimensional mode",
				},
				&cli.BoolFlag{
					Name:  "stem",
					Usage: "Reduce words to their Snowball stem",
				},
			},
			Action: MapAction,
		},
		{
			Name:  "sort",
			Usage: "Group records on stdin by key (external sort)",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "chunk-lines",
					Value: mapreduce.DefaultChunkLines,
					Usage: "Records sorted in memory before spilling a run to disk",
				},
				&cli.StringFlag{
					Name:  "temp-dir",
					Usage: "Directory for spilled sort runs (default: system temp dir)",
				},
			},
			Action: SortAction,
		},
		{
			Name:   "reduce",
			Usage:  "Total grouped records on stdin",
			Flags:  []cli.Flag{modeFlag()},
			Action: ReduceAction,
		},
	}
}
