package count

import (
	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

// Command returns the in-process pipeline command.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Count words across books (files, directories or URLs)",
		ArgsUsage: "SOURCES...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file; flags override its values",
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Value:   string(mapreduce.ModeUnigram),
				Usage:   "Record mode: unigram or dimensional",
			},
			&cli.StringFlag{
				Name:  "vocab",
				Usage: "Vocabulary file (first tab field per line); required in dimensional mode",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   4,
				Usage:   "Number of concurrent map workers",
			},
			&cli.IntFlag{
				Name:  "partitions",
				Value: 4,
				Usage: "Number of independently reduced partitions",
			},
			&cli.IntFlag{
				Name:  "chunk-lines",
				Value: mapreduce.DefaultChunkLines,
				Usage: "Records sorted in memory before spilling a run to disk",
			},
			&cli.StringFlag{
				Name:  "temp-dir",
				Usage: "Directory for intermediate files (default: system temp dir)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the frequency table to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Write a YAML run manifest to this file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite run history path (default: next to the binary)",
			},
			&cli.BoolFlag{
				Name:  "no-db",
				Usage: "Do not record the run in the database",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Cache mapper output per document in this directory",
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "Maximum age of cached mapper output, 0 for no expiry (default: 24h)",
			},
			&cli.BoolFlag{
				Name:  "english-only",
				Usage: "Skip documents whose story text is not detected as English",
			},
			&cli.BoolFlag{
				Name:  "stem",
				Usage: "Reduce words to their Snowball stem",
			},
			&cli.BoolFlag{
				Name:  "boundaries",
				Usage: "Apply start/end marker and table-of-contents detection in dimensional mode",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 25,
				Usage: "Print the top N words when writing to --output",
			},
		},
		Action: RunAction,
	}
}
