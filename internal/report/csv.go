package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/datecrawl/internal/model"
)

// csvHeader is the column order of the article file.
var csvHeader = []string{"title", "content", "date", "link"}

// FileName returns the article file name for target:
// scraped_article_DD-MM-YYYY.csv.
func FileName(target model.Date) string {
	return "scraped_article_" + target.Format("02-01-2006") + ".csv"
}

// CSVWriter writes article records as CSV.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRecords writes the header and one row per record. With no records the
// output is the header alone.
func (w *CSVWriter) WriteRecords(records []model.ArticleRecord) error {
	cw := csv.NewWriter(w.output)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Title, r.Content, r.Date.String(), r.Link}); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Link, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to FileName(target) inside dir, creating dir if
// needed, and returns the path written.
func WriteFile(dir string, target model.Date, records []model.ArticleRecord) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(target))
	f, err := os.Create(path) //nolint:gosec // path is built from the user's output directory
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := NewCSVWriter(f).WriteRecords(records); err != nil {
		_ = f.Close() //nolint:errcheck
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return path, nil
}
