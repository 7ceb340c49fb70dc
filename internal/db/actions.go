package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// RunsAction lists recorded runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	// Print table header
	fmt.Fprintf(w, "%-6s %-20s %-12s %-8s %-8s %-10s %-10s %-30s\n",
		"ID", "Created", "Mode", "Docs", "Skipped", "Words", "Distinct", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		output := r.OutputPath
		if output == "" {
			output = "(stdout)"
		}
		fmt.Fprintf(w, "%-6d %-20s %-12s %-8d %-8d %-10d %-10d %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Mode,
			r.DocumentCount,
			r.SkippedCount,
			r.TotalWords,
			r.DistinctWords,
			output,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'book-wordfreq db top <id>' to see a run's top words\n")
	return nil
}

// TopAction shows the most frequent words of a run (latest by default).
func TopAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	top, err := database.TopWords(runID, c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d (%s)\n", run.RunID, run.Mode)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Documents: %d (%d skipped)\n", run.DocumentCount, run.SkippedCount)
	fmt.Fprintf(w, "Words:     %d total, %d distinct\n\n", run.TotalWords, run.DistinctWords)

	for i, wc := range top {
		fmt.Fprintf(w, "%3d. %-20s %d\n", i+1, wc.Word, wc.Count)
	}

	if run.Mode == "dimensional" && len(top) > 0 {
		years, err := database.WordYears(runID, top[0].Word)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s by year:\n", top[0].Word)
		for _, y := range years {
			fmt.Fprintf(w, "  %d: %5d\n", y.Year, y.Count)
		}
	}
	return nil
}

// Command returns the "db" command group.
func Command() *cli.Command {
	dbFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "db",
			Usage: "SQLite run history path (default: next to the binary)",
		}
	}

	return &cli.Command{
		Name:  "db",
		Usage: "Inspect recorded runs",
		Subcommands: []*cli.Command{
			{
				Name:  "runs",
				Usage: "List recorded runs",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to list (0 for all)"},
				},
				Action: RunsAction,
			},
			{
				Name:      "top",
				Usage:     "Show the top words of a run",
				ArgsUsage: "[RUN_ID]",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{Name: "limit", Value: 25, Usage: "Number of words to show"},
				},
				Action: TopAction,
			},
		},
	}
}
