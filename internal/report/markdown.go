package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs run summaries in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

var titleCaser = cases.Title(language.English)

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	rows := seedRows(summary)

	w.writeHeader(md, summary)
	w.writeOutcomes(md, summary, rows)
	w.writeSeeds(md, rows)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Datecrawl Run " + summary.Target.String())
	md.PlainText("")

	output := summary.OutputPath
	if output == "" {
		output = "-"
	} else {
		output = "`" + output + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + summary.ID.String() + "`"},
			{"Target Date", summary.Target.String()},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed().Round(10 * time.Millisecond).String()},
			{"Seeds", strconv.Itoa(summary.Seeds)},
			{"Failed Seeds", strconv.Itoa(summary.FailedSeeds)},
			{"Links", strconv.Itoa(summary.Links)},
			{"Articles", strconv.Itoa(summary.Records)},
			{"Output", output},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, summary *model.RunSummary, rows []seedRow) {
	md.H2("Outcomes")
	md.PlainText("")

	counts := outcomeCounts(rows)
	if len(rows) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Seed Outcomes"),
			piechart.WithShowData(true),
		)
		for _, o := range []model.Outcome{model.OutcomeFound, model.OutcomeExhausted, model.OutcomeFailed} {
			if n := counts[o.String()]; n > 0 {
				chart.LabelAndIntValue(titleCaser.String(o.String()), uint64(n)) //nolint:gosec // counts are non-negative
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case summary.Seeds > 0 && summary.FailedSeeds == summary.Seeds:
		md.Cautionf("All %d seed(s) failed. The article file is empty.", summary.Seeds)
	case summary.FailedSeeds > 0:
		md.Warningf("%d of %d seed(s) failed and contributed no links.", summary.FailedSeeds, summary.Seeds)
	case summary.Records == 0:
		md.Note("No articles were published on the target date.")
	default:
		md.Tip(fmt.Sprintf("%d article(s) published on %s.", summary.Records, summary.Target))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeSeeds(md *markdown.Markdown, rows []seedRow) {
	md.H2("Seeds")
	md.PlainText("")

	if len(rows) == 0 {
		md.PlainText("No seeds were crawled.")
		md.PlainText("")
		return
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		note := r.Error
		if note == "" {
			note = r.Reason
		}
		if note == "" {
			note = "-"
		}
		table[i] = []string{
			r.Site,
			r.Navigation,
			titleCaser.String(r.Outcome),
			strconv.Itoa(r.Steps),
			strconv.Itoa(r.Links),
			truncateString(note, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Navigation", "Outcome", "Steps", "Links", "Note"},
		Rows:   table,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by datecrawl*")
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
