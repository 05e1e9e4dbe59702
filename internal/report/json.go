package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

// JSONWriter outputs run summaries in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONSummary is the JSON form of a run summary.
type JSONSummary struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Seeds       int       `json:"seeds"`
	FailedSeeds int       `json:"failed_seeds"`
	Links       int       `json:"links"`
	Records     int       `json:"records"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	OutputPath  string    `json:"output_path,omitempty"`
	SeedRuns    []seedRow `json:"seed_runs"`
}

// NewJSONSummary converts summary to its JSON form.
func NewJSONSummary(summary *model.RunSummary) *JSONSummary {
	return &JSONSummary{
		ID:          summary.ID.String(),
		Target:      summary.Target.String(),
		Seeds:       summary.Seeds,
		FailedSeeds: summary.FailedSeeds,
		Links:       summary.Links,
		Records:     summary.Records,
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		OutputPath:  summary.OutputPath,
		SeedRuns:    seedRows(summary),
	}
}

// Write outputs the summary as a single JSON document.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	return w.writeJSON(NewJSONSummary(summary))
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
