package report

import (
	"io"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

// Writer writes a run summary in some format.
type Writer interface {
	// Write outputs the summary and returns the number of bytes written.
	Write(summary *model.RunSummary) (int, error)
}

// MultiWriter writes a summary to several Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to every Writer and stops on the first error.
func (m *MultiWriter) Write(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// seedRow is the per-seed view shared by the summary writers.
type seedRow struct {
	Site       string        `json:"site"`
	Navigation string        `json:"navigation"`
	Outcome    string        `json:"outcome"`
	Steps      int           `json:"steps"`
	Links      int           `json:"links"`
	Reason     string        `json:"reason,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

func seedRows(summary *model.RunSummary) []seedRow {
	rows := make([]seedRow, 0, len(summary.SeedRuns))
	for _, run := range summary.SeedRuns {
		if run == nil {
			continue
		}
		row := seedRow{
			Site:       run.Seed.PageURL,
			Navigation: run.Seed.Navigation.String(),
			Outcome:    run.Outcome.String(),
			Steps:      run.NavigationSteps,
			Links:      len(run.Links),
			Error:      run.ErrorMessage(),
			Duration:   run.Duration,
		}
		if run.Reason != nil {
			row.Reason = run.Reason.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

// outcomeCounts tallies seeds by outcome name.
func outcomeCounts(rows []seedRow) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Outcome]++
	}
	return counts
}
