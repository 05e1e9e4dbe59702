package model

import (
	"encoding/json"
	"testing"
	"time"
)

// TestDateOf tests calendar date extraction.
func TestDateOf(t *testing.T) {
	t.Parallel()

	t.Run("keeps the date in the value's own zone", func(t *testing.T) {
		t.Parallel()

		zone := time.FixedZone("UTC+9", 9*60*60)
		got := DateOf(time.Date(2024, 5, 1, 2, 0, 0, 0, zone))

		want := NewDate(2024, time.May, 1)
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("discards time of day", func(t *testing.T) {
		t.Parallel()

		a := DateOf(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		b := DateOf(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC))
		if !a.Equal(b) {
			t.Errorf("expected %s to equal %s", a, b)
		}
	})
}

// TestParseDate tests strict ISO date parsing.
func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("parses YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()

		d, err := ParseDate("2099-01-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Year != 2099 || d.Month != time.January || d.Day != 1 {
			t.Errorf("unexpected date: %+v", d)
		}
		if d.String() != "2099-01-01" {
			t.Errorf("expected 2099-01-01, got %s", d.String())
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"01-05-2024", "2024/05/01", "", "yesterday"} {
			if _, err := ParseDate(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		}
	})
}

// TestDateFormat tests layout formatting used for file names.
func TestDateFormat(t *testing.T) {
	t.Parallel()

	d := NewDate(2024, time.May, 1)
	if got := d.Format("02-01-2006"); got != "01-05-2024" {
		t.Errorf("expected 01-05-2024, got %s", got)
	}
	if d.IsZero() {
		t.Error("expected non-zero date")
	}
	if !(Date{}).IsZero() {
		t.Error("expected zero date")
	}
}

// TestDateJSON tests that dates serialize as ISO strings.
func TestDateJSON(t *testing.T) {
	t.Parallel()

	record := ArticleRecord{Title: "t", Date: NewDate(2024, time.May, 1), Link: "https://news.example/a"}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["date"] != "2024-05-01" {
		t.Errorf("expected date 2024-05-01, got %v", decoded["date"])
	}
}
