package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/datecrawl/internal/database"
	"github.com/nao1215/datecrawl/internal/model"
)

// seedArchive stores one run with a failed and a found site plus one article.
func seedArchive(t *testing.T) (string, *model.RunSummary) {
	t.Helper()

	dir := t.TempDir()
	archive, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close() //nolint:errcheck

	started := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	summary := model.NewRunSummary(crawlTarget, started)
	summary.FinishedAt = started.Add(90 * time.Second)
	summary.Seeds = 2
	summary.FailedSeeds = 1
	summary.Links = 3
	summary.Records = 1

	found := model.NewSeedRun(model.Seed{PageURL: "https://news.example.com/", Navigation: model.NavigationPagination}, crawlTarget)
	found.Outcome = model.OutcomeFound
	found.NavigationSteps = 2
	found.Links = []string{"https://news.example.com/a", "https://news.example.com/b", "https://news.example.com/c"}
	failed := model.NewSeedRun(model.Seed{PageURL: "https://down.example.org/", Navigation: model.NavigationLoadMore}, crawlTarget)
	failed.Err = errors.New("connection refused")
	summary.SeedRuns = []*model.SeedRun{found, failed}

	ctx := context.Background()
	if err := archive.SaveRun(ctx, summary); err != nil {
		t.Fatal(err)
	}
	records := []model.ArticleRecord{{
		Title:   "Launch day",
		Content: "The launch went well.",
		Date:    crawlTarget,
		Link:    "https://news.example.com/a",
	}}
	if _, err := archive.SaveArticles(ctx, summary.ID, records); err != nil {
		t.Fatal(err)
	}
	return dir, summary
}

func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"history"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		dir, summary := seedArchive(t)
		out, err := runHistory(t, "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Archived runs (1)") || !strings.Contains(out, summary.ID.String()) {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("lists runs as json", func(t *testing.T) {
		t.Parallel()

		dir, summary := seedArchive(t)
		out, err := runHistory(t, "--db-dir", dir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []historyRun
		if err := json.Unmarshal([]byte(out), &runs); err != nil {
			t.Fatalf("invalid json %q: %v", out, err)
		}
		if len(runs) != 1 || runs[0].ID != summary.ID.String() || runs[0].Target != "2024-05-01" {
			t.Errorf("runs = %+v", runs)
		}
	})

	t.Run("shows one run", func(t *testing.T) {
		t.Parallel()

		dir, summary := seedArchive(t)
		out, err := runHistory(t, "--db-dir", dir, "--run", summary.ID.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Seeds:        2 (1 failed)",
			"https://news.example.com/",
			"Error: connection refused",
			"Elapsed:      1m30s",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		dir, _ := seedArchive(t)
		_, err := runHistory(t, "--db-dir", dir, "--run", "no-such-run")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("error = %v, want ErrRunNotFound", err)
		}
	})

	t.Run("lists articles for a date", func(t *testing.T) {
		t.Parallel()

		dir, _ := seedArchive(t)
		out, err := runHistory(t, "--db-dir", dir, "--date", "2024-05-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Launch day") || !strings.Contains(out, "https://news.example.com/a") {
			t.Errorf("output = %q", out)
		}

		out, err = runHistory(t, "--db-dir", dir, "--date", "2024-05-02")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No archived articles for 2024-05-02") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("run and date are exclusive", func(t *testing.T) {
		t.Parallel()

		dir, summary := seedArchive(t)
		if _, err := runHistory(t, "--db-dir", dir, "--run", summary.ID.String(), "--date", "2024-05-01"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing archive", func(t *testing.T) {
		t.Parallel()

		out, err := runHistory(t, "--db-dir", filepath.Join(t.TempDir(), "empty"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No archive found.") {
			t.Errorf("output = %q", out)
		}
	})
}
