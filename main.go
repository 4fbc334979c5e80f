package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordfreq/internal/count"
	"github.com/dtnitsch/wordfreq/internal/db"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	logFlags := []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every segment"},
	}
	historyFlag := &cli.StringFlag{
		Name:  "history-db",
		Usage: "SQLite run history `PATH` (empty: next to the binary)",
	}
	wordCharsFlag := &cli.StringFlag{
		Name:  "word-chars",
		Usage: "Extra bytes counted as word characters besides letters, digits and '",
	}

	return &cli.App{
		Name:  "wordfreq",
		Usage: "Count word frequencies by splitting a file into concurrent segments",
		Commands: []*cli.Command{
			{
				Name:   "count",
				Usage:  "Count words and print \"word<TAB>count\" lines sorted by frequency",
				Action: count.CountAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Input text `FILE`"},
					&cli.IntFlag{Name: "segments", Aliases: []string{"n"}, Usage: "Number of segments / workers"},
					&cli.IntFlag{Name: "workers", Usage: "Max segments counted at once (0: all)"},
					&cli.StringFlag{Name: "intermediate-dir", Aliases: []string{"o"}, Usage: "Directory for per-segment outputs (empty: none)"},
					&cli.IntFlag{Name: "top", Usage: "Print only the top N words (0: all)"},
					&cli.BoolFlag{Name: "exclude-stopwords", Usage: "Hide common English stopwords from the output"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Detect the input language for the run summary"},
					&cli.StringFlag{Name: "history-db", Usage: "Record the run in this SQLite `PATH`"},
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML run configuration `FILE`"},
					wordCharsFlag,
				}, logFlags...),
			},
			{
				Name:   "plan",
				Usage:  "Print the word-safe byte ranges for a file",
				Action: count.PlanAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Input text `FILE`"},
					&cli.IntFlag{Name: "segments", Aliases: []string{"n"}, Usage: "Number of segments"},
					wordCharsFlag,
				},
			},
			{
				Name:   "merge",
				Usage:  "Merge per-segment outputs from an intermediate directory",
				Action: count.MergeAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "intermediate", Usage: "Intermediate `DIR`"},
					&cli.IntFlag{Name: "top", Usage: "Print only the top N words (0: all)"},
					&cli.BoolFlag{Name: "exclude-stopwords", Usage: "Hide common English stopwords from the output"},
				}, logFlags...),
			},
			{
				Name:   "history",
				Usage:  "List recorded runs",
				Action: db.HistoryAction,
				Flags: []cli.Flag{
					historyFlag,
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Max runs to list (0: all)"},
				},
			},
			{
				Name:      "show",
				Usage:     "Show a recorded run (default: latest)",
				ArgsUsage: "[run-id]",
				Action:    db.ShowAction,
				Flags:     []cli.Flag{historyFlag},
			},
		},
	}
}
