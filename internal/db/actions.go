package db

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	dbpkg "github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/urfave/cli/v2"
)

// HistoryAction lists recorded runs, newest first.
func HistoryAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("history-db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %-9s %-9s %-10s %-10s %-30s\n",
		"ID", "Created", "Status", "Segments", "Size", "Words", "File")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(out, "%-6d %-20s %-9s %-9d %-10s %-10d %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			r.SegmentCount,
			humanize.Bytes(uint64(r.SizeBytes)),
			r.TotalWords,
			r.InputPath,
		)
	}

	fmt.Fprintf(out, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(out, "\nTip: Use 'wordfreq show <id>' to see details\n")
	return nil
}

// ShowAction prints a run with its segments and stored keywords.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("history-db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}
	segments, err := database.GetRunSegments(runID)
	if err != nil {
		return err
	}
	keywords, err := database.GetRunKeywords(runID)
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Run %d (%s)\n", run.RunID, run.RunUUID)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "File:        %s (%s)\n", run.InputPath, humanize.Bytes(uint64(run.SizeBytes)))
	fmt.Fprintf(out, "Status:      %s\n", run.Status)
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:       %s\n", run.ErrorMessage)
	}
	fmt.Fprintf(out, "Words:       %d total, %d distinct\n", run.TotalWords, run.DistinctWords)
	if run.Language != "" {
		fmt.Fprintf(out, "Language:    %s\n", run.Language)
	}
	fmt.Fprintf(out, "Duration:    %s\n", run.Duration)

	if len(segments) > 0 {
		fmt.Fprintf(out, "\nSegments (%d):\n", len(segments))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, s := range segments {
			fmt.Fprintf(out, "%3d. [%d, %d) words=%d distinct=%d %s\n",
				s.Index, s.Start, s.End, s.WordCount, s.DistinctCount, s.ArtifactPath)
		}
	}

	if len(keywords) > 0 {
		fmt.Fprintf(out, "\nTop words (%d):\n", len(keywords))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, k := range keywords {
			fmt.Fprintf(out, "%3d. %s\t%d\n", k.Rank, k.Word, k.Count)
		}
	}

	return nil
}
