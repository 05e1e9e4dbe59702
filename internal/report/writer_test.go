package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

var may1 = model.NewDate(2024, time.May, 1)

// createTestSummary creates a summary with one seed per outcome.
func createTestSummary() *model.RunSummary {
	started := time.Date(2024, time.May, 1, 6, 0, 0, 0, time.UTC)
	summary := model.NewRunSummary(may1, started)

	found := model.NewSeedRun(model.Seed{PageURL: "https://a.example/news", Navigation: model.NavigationPagination}, may1)
	found.Outcome = model.OutcomeFound
	found.NavigationSteps = 2
	found.Links = []string{"https://a.example/1", "https://a.example/2"}

	exhausted := model.NewSeedRun(model.Seed{PageURL: "https://b.example/latest", Navigation: model.NavigationLoadMore}, may1)
	exhausted.Outcome = model.OutcomeExhausted
	exhausted.NavigationSteps = 50
	exhausted.Reason = errors.New("step limit reached")

	failed := model.NewSeedRun(model.Seed{PageURL: "https://c.example/", Navigation: model.NavigationInfiniteScroll}, may1)
	failed.Err = errors.New("browser launch failed")

	summary.SeedRuns = []*model.SeedRun{found, exhausted, failed}
	summary.Seeds = 3
	summary.FailedSeeds = 1
	summary.Links = 2
	summary.Records = 1
	summary.OutputPath = "out/scraped_article_01-05-2024.csv"
	summary.FinishedAt = started.Add(90 * time.Second)
	return summary
}

// TestFileName tests the article file naming.
func TestFileName(t *testing.T) {
	t.Parallel()

	if got := FileName(may1); got != "scraped_article_01-05-2024.csv" {
		t.Errorf("FileName() = %q", got)
	}
	if got := FileName(model.NewDate(2023, time.December, 31)); got != "scraped_article_31-12-2023.csv" {
		t.Errorf("FileName() = %q", got)
	}
}

// TestCSVWriter tests the article CSV format.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("header only when empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewCSVWriter(&buf).WriteRecords(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "title,content,date,link\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("quotes fields and writes ISO dates", func(t *testing.T) {
		t.Parallel()

		records := []model.ArticleRecord{
			{Title: `Budget, "final"`, Content: "Line one.\n\nLine two.", Date: may1, Link: "https://a.example/1"},
			{Title: "Second", Content: "Body", Date: may1, Link: "https://a.example/2"},
		}

		var buf bytes.Buffer
		if err := NewCSVWriter(&buf).WriteRecords(records); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid csv: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if rows[1][0] != `Budget, "final"` || rows[1][1] != "Line one.\n\nLine two." {
			t.Errorf("fields not preserved: %q", rows[1])
		}
		if rows[1][2] != "2024-05-01" || rows[2][3] != "https://a.example/2" {
			t.Errorf("unexpected rows %q", rows)
		}
	})
}

// TestWriteFile tests writing the article file to disk.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		path, err := WriteFile(dir, may1, []model.ArticleRecord{{Title: "T", Content: "C", Date: may1, Link: "https://a.example/"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != filepath.Join(dir, "scraped_article_01-05-2024.csv") {
			t.Errorf("unexpected path %q", path)
		}
		data, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "title,content,date,link\nT,C,2024-05-01,https://a.example/") {
			t.Errorf("unexpected file content %q", data)
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteFile(filepath.Join(file, "sub"), may1, nil); err == nil {
			t.Error("expected error when output dir is a file")
		}
	})
}

// TestSimpleWriter tests the terminal summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes totals and seeds", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"DATECRAWL RUN",
			"Target Date:  2024-05-01",
			"Seeds:        3 (1 failed)",
			"Articles:     1",
			"[+] https://a.example/news",
			"[!] https://c.example/",
			"Error: browser launch failed",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "Reason:") {
			t.Error("reason should only be shown in verbose mode")
		}
	})

	t.Run("verbose shows reasons", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Reason: step limit reached") {
			t.Error("expected verbose output to contain exhaustion reason")
		}
	})
}

// TestJSONWriter tests the JSON summary.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected a single line of JSON")
		}

		var got JSONSummary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Target != "2024-05-01" || got.Records != 1 || len(got.SeedRuns) != 3 {
			t.Errorf("unexpected summary %+v", got)
		}
		if got.SeedRuns[2].Error != "browser launch failed" || got.SeedRuns[1].Reason != "step limit reached" {
			t.Errorf("unexpected seed rows %+v", got.SeedRuns)
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"target\": \"2024-05-01\"") {
			t.Error("expected indented output")
		}
	})
}

// TestMarkdownWriter tests the Markdown summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Datecrawl Run 2024-05-01",
			"## Outcomes",
			"```mermaid",
			"Found",
			"Exhausted",
			"## Seeds",
			"https://b.example/latest",
			"step limit reached",
			"[!WARNING]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no seeds", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		summary := model.NewRunSummary(may1, time.Now())
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No seeds were crawled.") {
			t.Error("expected empty seed notice")
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected no chart without seeds")
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected output from both writers")
	}
}

// TestTruncateString tests truncation of long table cells.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
