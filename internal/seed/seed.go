package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/datecrawl/internal/model"
)

// Column names required in the header row.
const (
	ColumnPageURL        = "page_url"
	ColumnNavigationType = "navigation_type"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("seed file is missing a required column")

	// ErrEmptyFile is returned when the seed file has no header row.
	ErrEmptyFile = errors.New("seed file is empty")
)

// RowError describes a data row that was skipped.
type RowError struct {
	// Line is the 1-based line number in the file.
	Line int
	Err  error
}

// Error implements error.
func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e RowError) Unwrap() error {
	return e.Err
}

// Load opens path and reads seeds from it.
func Load(path string) ([]model.Seed, []RowError, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's own flag
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return Read(f)
}

// Read parses seeds from CSV data. Valid seeds are returned in file order
// together with one RowError per rejected row.
func Read(r io.Reader) ([]model.Seed, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed header: %w", err)
	}

	urlCol, navCol, err := columns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		seeds   []model.Seed
		rowErrs []RowError
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, RowError{Line: parseErr.Line, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)

		s, err := parseRow(record, urlCol, navCol)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		seeds = append(seeds, s)
	}

	return seeds, rowErrs, nil
}

func columns(header []string) (urlCol, navCol int, err error) {
	urlCol, navCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case ColumnPageURL:
			urlCol = i
		case ColumnNavigationType:
			navCol = i
		}
	}
	if urlCol < 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnPageURL)
	}
	if navCol < 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnNavigationType)
	}
	return urlCol, navCol, nil
}

func parseRow(record []string, urlCol, navCol int) (model.Seed, error) {
	if urlCol >= len(record) || navCol >= len(record) {
		return model.Seed{}, fmt.Errorf("expected at least %d fields, got %d", max(urlCol, navCol)+1, len(record))
	}
	nav, err := model.ParseNavigationType(record[navCol])
	if err != nil {
		return model.Seed{}, err
	}
	return model.NewSeed(record[urlCol], nav)
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
