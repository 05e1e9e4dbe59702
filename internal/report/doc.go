// Package report writes the results of a crawl run.
//
// CSVWriter produces the run artifact: one row per article published on the
// target date. The other writers describe the run itself from a
// model.RunSummary:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: structured output for other tools
//   - MarkdownWriter: a shareable summary document
//
// Summary writers implement the Writer interface and can be combined with
// MultiWriter.
package report
