package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nao1215/datecrawl/internal/config"
	"github.com/nao1215/datecrawl/internal/database"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// It reads runs and articles stored by 'datecrawl crawl --archive'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived crawl runs and articles",
		Long: `History reads the SQLite archive written by 'datecrawl crawl --archive'.

Without flags it lists the most recent runs. A run ID shows the result of
every site in that run, and a date lists the archived articles for it.

Examples:
  # List the latest runs
  datecrawl history

  # Show per-site results of one run
  datecrawl history --run 6f1c2e7a-3b4d-4e1f-9a8b-2c3d4e5f6a7b

  # List archived articles published on a date
  datecrawl history --date 2024-05-01

  # Output in JSON format
  datecrawl history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().StringP("run", "r", "",
		"Show the per-site results of this run ID")
	cmd.Flags().StringP("date", "d", "",
		"List archived articles for this date (YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	dateFlag, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Validate before opening the archive.
	if runID != "" && dateFlag != "" {
		return errors.New("--run and --date cannot be used together")
	}
	var date model.Date
	if dateFlag != "" {
		if date, err = model.ParseDate(dateFlag); err != nil {
			return err
		}
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	archive, err := database.Open(dbDir, opts)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(cmd.OutOrStdout(), "No archive found.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'datecrawl crawl --archive' to record runs.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case runID != "":
		return showRun(ctx, out, archive, runID, jsonOutput)
	case dateFlag != "":
		return listArticles(ctx, out, archive, date, jsonOutput)
	default:
		return listRuns(ctx, out, archive, limit, jsonOutput)
	}
}

// historyRun is the JSON form of an archived run.
type historyRun struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Seeds       int       `json:"seeds"`
	FailedSeeds int       `json:"failed_seeds"`
	Links       int       `json:"links"`
	Records     int       `json:"records"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	OutputPath  string    `json:"output_path,omitempty"`
}

func newHistoryRun(r database.RunRecord) historyRun {
	return historyRun{
		ID:          r.ID,
		Target:      r.Target.String(),
		Seeds:       r.Seeds,
		FailedSeeds: r.FailedSeeds,
		Links:       r.Links,
		Records:     r.Records,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		OutputPath:  r.OutputPath,
	}
}

// historySeed is the JSON form of an archived per-site result.
type historySeed struct {
	Site       string `json:"site"`
	Navigation string `json:"navigation"`
	Outcome    string `json:"outcome"`
	Steps      int    `json:"steps"`
	Links      int    `json:"links"`
	Error      string `json:"error,omitempty"`
}

// historyArticle is the JSON form of an archived article.
type historyArticle struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Link    string `json:"link"`
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, out io.Writer, archive *database.Archive, limit int, jsonOutput bool) error {
	runs, err := archive.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		items := make([]historyRun, 0, len(runs))
		for _, r := range runs {
			items = append(items, newHistoryRun(r))
		}
		return writeJSON(out, items)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the archive.")
		return nil
	}

	fmt.Fprintf(out, "Archived runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-10s  %-19s  %5s  %6s  %8s\n", "ID", "Target", "Started", "Seeds", "Failed", "Articles")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 94))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-36s  %-10s  %-19s  %5d  %6d  %8d\n",
			r.ID,
			r.Target,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Seeds,
			r.FailedSeeds,
			r.Records,
		)
	}
	fmt.Fprintln(out, "\nUse 'datecrawl history --run <id>' to see per-site results.")
	return nil
}

// showRun prints one run and its per-site results.
func showRun(ctx context.Context, out io.Writer, archive *database.Archive, runID string, jsonOutput bool) error {
	run, err := archive.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	seeds, err := archive.SeedRuns(ctx, run.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		items := make([]historySeed, 0, len(seeds))
		for _, s := range seeds {
			items = append(items, historySeed{
				Site:       s.PageURL,
				Navigation: s.Navigation,
				Outcome:    s.Outcome,
				Steps:      s.Steps,
				Links:      s.Links,
				Error:      s.Error,
			})
		}
		return writeJSON(out, struct {
			historyRun
			SeedRuns []historySeed `json:"seed_runs"`
		}{newHistoryRun(*run), items})
	}

	fmt.Fprintf(out, "Run %s\n\n", run.ID)
	fmt.Fprintf(out, "  Target Date:  %s\n", run.Target)
	fmt.Fprintf(out, "  Started:      %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Elapsed:      %s\n", run.Elapsed().Round(time.Second))
	fmt.Fprintf(out, "  Seeds:        %d (%d failed)\n", run.Seeds, run.FailedSeeds)
	fmt.Fprintf(out, "  Links:        %d\n", run.Links)
	fmt.Fprintf(out, "  Articles:     %d\n", run.Records)
	if run.OutputPath != "" {
		fmt.Fprintf(out, "  Output:       %s\n", run.OutputPath)
	}

	if len(seeds) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	for _, s := range seeds {
		fmt.Fprintf(out, "  %-9s  %-15s  %3d step(s)  %4d link(s)  %s\n",
			s.Outcome, s.Navigation, s.Steps, s.Links, s.PageURL)
		if s.Error != "" {
			fmt.Fprintf(out, "             Error: %s\n", s.Error)
		}
	}
	return nil
}

// listArticles prints the archived articles for date.
func listArticles(ctx context.Context, out io.Writer, archive *database.Archive, date model.Date, jsonOutput bool) error {
	articles, err := archive.ArticlesByDate(ctx, date)
	if err != nil {
		return err
	}

	if jsonOutput {
		items := make([]historyArticle, 0, len(articles))
		for _, a := range articles {
			items = append(items, historyArticle{
				Title:   a.Title,
				Content: a.Content,
				Date:    a.Date.String(),
				Link:    a.Link,
			})
		}
		return writeJSON(out, items)
	}

	if len(articles) == 0 {
		fmt.Fprintf(out, "No archived articles for %s.\n", date)
		return nil
	}

	fmt.Fprintf(out, "Archived articles for %s (%d):\n\n", date, len(articles))
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "  • %s\n    %s\n", title, a.Link)
	}
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
