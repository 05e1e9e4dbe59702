package datematch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/nao1215/datecrawl/internal/model"
)

var (
	// ErrEmptyDate is returned when there is no date text to parse.
	ErrEmptyDate = errors.New("empty date")

	// ErrUnparseableDate is returned when no parser accepts the date text.
	ErrUnparseableDate = errors.New("unparseable date")
)

// fallbackLayouts are tried after dateparse gives up. They cover day-first
// long forms that some European publishers emit and weekday-first US forms
// common in <time> text.
var fallbackLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"Monday, 2 January 2006",
	"Monday, January 2, 2006",
	"Mon, January 2, 2006",
	"Mon, Jan 2, 2006",
	"02.01.2006",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05 -0700 MST",
}

// ParseTime parses text with the flexible parser and the fallback layouts.
// The returned time keeps whatever offset the text carried (UTC when none).
func ParseTime(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrEmptyDate
	}

	if t, err := parseAny(text); err == nil {
		return t, nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
}

// Parse parses text into a calendar date.
func Parse(text string) (model.Date, error) {
	t, err := ParseTime(text)
	if err != nil {
		return model.Date{}, err
	}
	return model.DateOf(t), nil
}

// parseAny calls dateparse with a recover guard; malformed input must never
// take down a crawl worker.
func parseAny(text string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnparseableDate, r)
		}
	}()
	return dateparse.ParseIn(text, time.UTC)
}
