package article

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when a page has neither a title nor body text.
var ErrNoContent = errors.New("no article content")

// ExtractionError reports why a link could not be turned into an article.
type ExtractionError struct {
	URL string
	Err error
}

// Error implements error.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
