package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

// SimpleWriter outputs a plain text run summary for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds per-seed stop reasons and durations.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSeeds(&sb, summary)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          DATECRAWL RUN\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Target Date:  %s\n", summary.Target)
	fmt.Fprintf(sb, "Seeds:        %d (%d failed)\n", summary.Seeds, summary.FailedSeeds)
	fmt.Fprintf(sb, "Links:        %d\n", summary.Links)
	fmt.Fprintf(sb, "Articles:     %d\n", summary.Records)
	if summary.OutputPath != "" {
		fmt.Fprintf(sb, "Output:       %s\n", summary.OutputPath)
	}
	if d := summary.Elapsed(); d > 0 {
		fmt.Fprintf(sb, "Elapsed:      %s\n", d.Round(10 * time.Millisecond))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSeeds(sb *strings.Builder, summary *model.RunSummary) {
	rows := seedRows(summary)
	if len(rows) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEEDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, r := range rows {
		fmt.Fprintf(sb, "  [%s] %s\n", indicator(r.Outcome), r.Site)
		fmt.Fprintf(sb, "    %s, %d step(s), %d link(s)\n", r.Navigation, r.Steps, r.Links)
		if r.Error != "" {
			fmt.Fprintf(sb, "    Error: %s\n", r.Error)
		}
		if w.verbose {
			if r.Reason != "" {
				fmt.Fprintf(sb, "    Reason: %s\n", r.Reason)
			}
			fmt.Fprintf(sb, "    Duration: %s\n", r.Duration)
		}
	}
	sb.WriteString("\n")
}

// indicator returns a short marker for an outcome name.
func indicator(outcome string) string {
	switch outcome {
	case model.OutcomeFound.String():
		return "+"
	case model.OutcomeExhausted.String():
		return "-"
	case model.OutcomeFailed.String():
		return "!"
	default:
		return "?"
	}
}
