package crawler

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/datecrawl/internal/model"
)

// TestParser tests HTML parsing functionality.
func TestParser(t *testing.T) {
	t.Parallel()

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title> Latest News </title></head><body></body></html>`
		parser, err := NewParser("https://news.example.com")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Title != "Latest News" {
			t.Errorf("expected title 'Latest News', got %q", result.Title)
		}
	})

	t.Run("extracts links and classifies them", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/2024/05/01/story">Story</a>
			<a href="https://news.example.com/about">About</a>
			<a href="https://partner.example.org/feature">Partner</a>
		</body></html>`

		parser, err := NewParser("https://news.example.com")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}
		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(result.Links) != 3 {
			t.Errorf("expected 3 links, got %d", len(result.Links))
		}
		if len(result.InternalLinks) != 2 {
			t.Errorf("expected 2 internal links, got %d: %v", len(result.InternalLinks), result.InternalLinks)
		}
		if len(result.ExternalLinks) != 1 {
			t.Errorf("expected 1 external link, got %d", len(result.ExternalLinks))
		}
	})
}

// TestResolveURL tests link resolution and skipping rules.
func TestResolveURL(t *testing.T) {
	t.Parallel()

	parser, err := NewParser("https://news.example.com")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative path", "/world/story-1", "https://news.example.com/world/story-1"},
		{"relative without slash", "story-2", "https://news.example.com/story-2"},
		{"absolute", "https://other.example.org/a", "https://other.example.org/a"},
		{"protocol relative", "//cdn.example.net/x", "https://cdn.example.net/x"},
		{"fragment dropped", "/story#comments", "https://news.example.com/story"},
		{"host lowercased", "https://NEWS.Example.com/Story", "https://news.example.com/Story"},
		{"query kept", "/search?q=go", "https://news.example.com/search?q=go"},
		{"surrounding space", "  /spaced  ", "https://news.example.com/spaced"},
		{"empty", "", ""},
		{"bare hash", "#", ""},
		{"javascript", "javascript:void(0)", ""},
		{"javascript upper", "JavaScript:alert(1)", ""},
		{"mailto", "mailto:desk@example.com", ""},
		{"tel", "tel:+123456", ""},
		{"data", "data:text/plain,hello", ""},
		{"ftp", "ftp://files.example.com/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parser.resolveURL(tt.href); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

// TestCollector tests link collection from snapshots.
func TestCollector(t *testing.T) {
	t.Parallel()

	const listing = `<html><head><title>Page 2</title></head><body>
		<a href="/2024/05/01/a">A</a>
		<a href="/2024/05/01/b">B</a>
		<a href="/2024/05/01/a#top">A again</a>
		<a href="/tag/politics">Tag</a>
		<a href="mailto:tips@example.com">Tips</a>
		<a href="#">Top</a>
	</body></html>`

	t.Run("resolves against site root and deduplicates in order", func(t *testing.T) {
		t.Parallel()

		snap := model.NewSnapshot("https://news.example.com/news/page/2/", []byte(listing))
		links, err := NewCollector().Collect(snap)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		want := []string{
			"https://news.example.com/2024/05/01/a",
			"https://news.example.com/2024/05/01/b",
			"https://news.example.com/tag/politics",
		}
		if len(links) != len(want) {
			t.Fatalf("got %d links %v, want %v", len(links), links, want)
		}
		for i := range want {
			if links[i] != want[i] {
				t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
			}
		}
	})

	t.Run("relative links ignore the page path", func(t *testing.T) {
		t.Parallel()

		snap := model.NewSnapshot("https://news.example.com/section/page/3/", []byte(`<a href="story">x</a>`))
		links, err := NewCollector().Collect(snap)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(links) != 1 || links[0] != "https://news.example.com/story" {
			t.Errorf("links = %v", links)
		}
	})

	t.Run("ignore patterns", func(t *testing.T) {
		t.Parallel()

		snap := model.NewSnapshot("https://news.example.com/", []byte(listing))
		links, err := NewCollector(WithIgnorePatterns([]string{"/tag/*"})).Collect(snap)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		for _, l := range links {
			if strings.Contains(l, "/tag/") {
				t.Errorf("ignored link %q was collected", l)
			}
		}
		if len(links) != 2 {
			t.Errorf("got %d links, want 2", len(links))
		}
	})

	t.Run("follow patterns", func(t *testing.T) {
		t.Parallel()

		snap := model.NewSnapshot("https://news.example.com/", []byte(listing))
		result, err := NewCollector(WithFollowPatterns([]string{"/2024/*", " "})).Parse(snap)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(result.Links) != 2 || len(result.InternalLinks) != 2 {
			t.Errorf("links = %v internal = %v", result.Links, result.InternalLinks)
		}
		if result.Title != "Page 2" {
			t.Errorf("Title = %q", result.Title)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		links, err := NewCollector().Collect(nil)
		if err != nil {
			t.Fatalf("Collect(nil) error = %v", err)
		}
		if len(links) != 0 {
			t.Errorf("links = %v, want none", links)
		}
	})

	t.Run("snapshot without host", func(t *testing.T) {
		t.Parallel()

		_, err := NewCollector().Collect(model.NewSnapshot("/relative/only", []byte(listing)))
		if !errors.Is(err, model.ErrNoSnapshotURL) {
			t.Errorf("err = %v, want ErrNoSnapshotURL", err)
		}
	})

	t.Run("collecting is pure", func(t *testing.T) {
		t.Parallel()

		snap := model.NewSnapshot("https://news.example.com/", []byte(listing))
		c := NewCollector()
		first, _ := c.Collect(snap)  //nolint:errcheck
		second, _ := c.Collect(snap) //nolint:errcheck
		if strings.Join(first, ",") != strings.Join(second, ",") {
			t.Errorf("Collect() not deterministic: %v vs %v", first, second)
		}
	})
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"prefix match", "/tag/*", "/tag/politics", true},
		{"prefix exact", "/tag/*", "/tag", true},
		{"prefix nested", "/tag/*", "/tag/politics/page/2", true},
		{"prefix no match", "/tag/*", "/world/story", false},
		{"prefix partial no match", "/tag/*", "/tagged", false},
		{"extension", "*.pdf", "/docs/report.pdf", true},
		{"extension no match", "*.pdf", "/docs/report.html", false},
		{"exact", "/about", "/about", true},
		{"exact no match", "/about", "/contact", false},
		{"single char", "/20??/*/*/*", "/2024/05/01/story", true},
		{"segment glob", "story-*", "/world/story-1", true},
		{"root", "/", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestLinkFilter(t *testing.T) {
	t.Parallel()

	f := NewLinkFilter([]string{"/tag/*"}, []string{"/2024/*", "/tag/*"})
	if f.Empty() {
		t.Fatal("expected non-empty filter")
	}
	if !f.Allow("https://news.example.com/2024/05/01/a") {
		t.Error("expected followed link to be allowed")
	}
	if f.Allow("https://news.example.com/tag/politics") {
		t.Error("ignore should win over follow")
	}
	if f.Allow("https://news.example.com/about") {
		t.Error("expected link outside follow patterns to be dropped")
	}
	if !NewLinkFilter(nil, []string{""}).Empty() {
		t.Error("blank patterns should leave the filter empty")
	}
	if !NewLinkFilter(nil, nil).Allow("https://news.example.com") {
		t.Error("empty filter should allow root")
	}
}
