package datematch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

var may1 = model.NewDate(2024, time.May, 1)

// TestParse tests flexible date parsing.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("accepts common publisher formats", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"2024-05-01",
			"2024-05-01T08:00:00Z",
			"2024-05-01T23:30:00-05:00",
			"2024-05-01 08:00:00",
			"May 1, 2024",
			"Wed, 01 May 2024 08:00:00 GMT",
			"1 May 2024",
			"Wednesday, May 1, 2024",
		}
		for _, input := range inputs {
			got, err := Parse(input)
			if err != nil {
				t.Errorf("Parse(%q) failed: %v", input, err)
				continue
			}
			if !got.Equal(may1) {
				t.Errorf("Parse(%q) = %s, expected %s", input, got, may1)
			}
		}
	})

	t.Run("keeps the local calendar date of offset timestamps", func(t *testing.T) {
		t.Parallel()

		// 23:30 at -05:00 is already May 2 in UTC; the page said May 1.
		got, err := Parse("2024-05-01T23:30:00-05:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.String() != "2024-05-01" {
			t.Errorf("expected 2024-05-01, got %s", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if _, err := Parse("   "); !errors.Is(err, ErrEmptyDate) {
			t.Errorf("expected ErrEmptyDate, got %v", err)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		if _, err := Parse("not a date at all"); !errors.Is(err, ErrUnparseableDate) {
			t.Errorf("expected ErrUnparseableDate, got %v", err)
		}
	})
}

// TestMatches tests date equality against the target.
func TestMatches(t *testing.T) {
	t.Parallel()

	t.Run("same day different time matches", func(t *testing.T) {
		t.Parallel()

		if !Matches("2024-05-01T00:00:01Z", may1) || !Matches("2024-05-01T23:59:59Z", may1) {
			t.Error("expected both ends of the day to match")
		}
	})

	t.Run("other days do not match", func(t *testing.T) {
		t.Parallel()

		if Matches("2024-04-30T23:59:59Z", may1) || Matches("2024-05-02", may1) {
			t.Error("expected neighbouring days not to match")
		}
	})

	t.Run("malformed and empty input return false", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "   ", "yesterday-ish", "2024-13-45", "<script>"} {
			if Matches(input, may1) {
				t.Errorf("expected no match for %q", input)
			}
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		inputs := []string{"2024-05-01", "garbage", "May 2, 2024"}
		for _, input := range inputs {
			first := Matches(input, may1)
			for i := 0; i < 5; i++ {
				if Matches(input, may1) != first {
					t.Fatalf("Matches(%q) changed between calls", input)
				}
			}
		}
	})
}

// TestMatchesTime tests the structured-date variant.
func TestMatchesTime(t *testing.T) {
	t.Parallel()

	if MatchesTime(nil, may1) {
		t.Error("nil time should not match")
	}

	zero := time.Time{}
	if MatchesTime(&zero, may1) {
		t.Error("zero time should not match")
	}

	ts := time.Date(2024, 5, 1, 18, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	if !MatchesTime(&ts, may1) {
		t.Error("expected match in the value's own zone")
	}
}

// TestMatcherInSnapshot tests scanning pages for date elements.
func TestMatcherInSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("finds time element with datetime attribute", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<article><time datetime="2024-04-30T10:00:00Z">Yesterday</time></article>
			<article><time datetime="2024-05-01T08:00:00Z">Today</time></article>
		</body></html>`

		found, err := NewMatcher().InSnapshot(model.NewSnapshot("https://news.example/world/page/2/", []byte(html)), may1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found {
			t.Error("expected target date to be found")
		}
	})

	t.Run("falls back to element text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><time>May 1, 2024</time></body></html>`
		found, err := NewMatcher().InSnapshot(model.NewSnapshot("https://news.example/", []byte(html)), may1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found {
			t.Error("expected text date to be found")
		}
	})

	t.Run("custom selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><span class="date">2024-05-01</span><time datetime="2024-04-01"></time></body></html>`
		m := NewMatcher(WithSelector("span.date"))
		if m.Selector() != "span.date" {
			t.Errorf("unexpected selector %q", m.Selector())
		}

		found, err := m.InSnapshot(model.NewSnapshot("https://news.example/", []byte(html)), may1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found {
			t.Error("expected custom selector to find the date")
		}
	})

	t.Run("unparseable dates are logged and skipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		html := `<html><body><time datetime="sometime soon"></time></body></html>`
		found, err := NewMatcher(WithLogger(logger)).InSnapshot(model.NewSnapshot("https://news.example/", []byte(html)), may1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found {
			t.Error("expected no match")
		}
		if !strings.Contains(buf.String(), "unable to parse date") {
			t.Errorf("expected parse failure to be logged, got %q", buf.String())
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		found, err := NewMatcher().InSnapshot(nil, may1)
		if err != nil || found {
			t.Errorf("expected (false, nil), got (%v, %v)", found, err)
		}
	})
}
