package article

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/datecrawl/internal/model"
)

// Fetcher retrieves a page. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*model.Snapshot, error)
}

// Extracted is what an Extractor found on an article page.
type Extracted struct {
	Title string
	Text  string

	// PublishedAt is the raw publish date text, empty when the page has none.
	PublishedAt string

	// PublishedTime is set when PublishedAt is a machine-readable RFC 3339
	// timestamp.
	PublishedTime *time.Time
}

// Extractor pulls article fields from a URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extracted, error)
}

// HTMLExtractor fetches a page and reads article fields from its markup.
type HTMLExtractor struct {
	fetcher Fetcher
}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor(fetcher Fetcher) *HTMLExtractor {
	return &HTMLExtractor{fetcher: fetcher}
}

// Extract implements Extractor.
func (e *HTMLExtractor) Extract(ctx context.Context, url string) (*Extracted, error) {
	snap, err := e.fetcher.Get(ctx, url)
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}
	ex, err := ExtractSnapshot(snap)
	if err != nil {
		return nil, &ExtractionError{URL: url, Err: err}
	}
	return ex, nil
}

// ExtractSnapshot reads article fields from an already fetched page.
func ExtractSnapshot(snap *model.Snapshot) (*Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(snap.Reader())
	if err != nil {
		return nil, err
	}

	ex := &Extracted{
		Title:       extractTitle(doc),
		Text:        extractText(doc),
		PublishedAt: extractPublished(doc),
	}
	if ex.Title == "" && ex.Text == "" {
		return nil, ErrNoContent
	}
	if ex.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, ex.PublishedAt); err == nil {
			ex.PublishedTime = &t
		}
	}
	return ex, nil
}

func extractTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if v = normalizeSpace(v); v != "" {
			return v
		}
	}
	if v := normalizeSpace(doc.Find("h1").First().Text()); v != "" {
		return v
	}
	return normalizeSpace(doc.Find("title").First().Text())
}

// textSelectors are tried in order; the first that yields paragraphs wins.
var textSelectors = []string{"article p", "main p", "body p"}

func extractText(doc *goquery.Document) string {
	for _, sel := range textSelectors {
		var paragraphs []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if p := normalizeSpace(s.Text()); p != "" {
				paragraphs = append(paragraphs, p)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
	}
	return ""
}

// dateMetaSelectors lists publish date metadata in order of trust.
var dateMetaSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[itemprop="datePublished"]`,
	`meta[name="pubdate"]`,
	`meta[name="publishdate"]`,
	`meta[name="date"]`,
}

func extractPublished(doc *goquery.Document) string {
	for _, sel := range dateMetaSelectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}

	var fromLD string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		fromLD = findDatePublished(data)
		return fromLD == ""
	})
	if fromLD != "" {
		return fromLD
	}

	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// findDatePublished walks decoded JSON-LD, including @graph arrays and
// top-level lists, and returns the first datePublished string.
func findDatePublished(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if s, ok := v["datePublished"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		if graph, ok := v["@graph"]; ok {
			return findDatePublished(graph)
		}
	case []any:
		for _, item := range v {
			if s := findDatePublished(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
