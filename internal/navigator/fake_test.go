package navigator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nao1215/datecrawl/internal/render"
)

// listingHTML renders a listing page with one dated article and an optional
// next link.
func listingHTML(date string, next bool) string {
	nextLink := ""
	if next {
		nextLink = `<a class="pagination-next" href="?next">Next</a>`
	}
	return fmt.Sprintf(`<html><body>
<article><a href="/articles/%[1]s">Story</a><time datetime="%[1]s">%[1]s</time></article>
%[2]s
</body></html>`, date, nextLink)
}

// fakeSession is a scripted render.Session. Each scroll or click advances
// stage; pages and heights are indexed by stage.
type fakeSession struct {
	mu sync.Mutex

	pages   []string
	heights []int
	// grow makes every scroll add content forever.
	grow bool
	// clicks is how many load-more clicks succeed before the control vanishes.
	clicks int

	navigateErr error
	heightErr   error
	htmlErr     error
	scrollErr   error
	clickErr    error

	stage  int
	closes int
}

func (s *fakeSession) Navigate(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateErr
}

func (s *fakeSession) ScrollToBottom(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scrollErr != nil {
		return s.scrollErr
	}
	if s.grow || s.stage < len(s.pages)-1 {
		s.stage++
	}
	return nil
}

func (s *fakeSession) Height(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.heightErr != nil {
		return 0, s.heightErr
	}
	if s.grow {
		return 100 * (s.stage + 1), nil
	}
	return s.heights[s.stage], nil
}

func (s *fakeSession) ClickText(_ context.Context, tag, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clickErr != nil {
		return s.clickErr
	}
	if s.stage >= s.clicks {
		return fmt.Errorf("%s containing %q: %w", tag, text, render.ErrElementNotFound)
	}
	s.stage++
	return nil
}

func (s *fakeSession) HTML(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.htmlErr != nil {
		return "", s.htmlErr
	}
	return s.pages[min(s.stage, len(s.pages)-1)], nil
}

func (s *fakeSession) URL() string {
	return "https://news.example.com/latest"
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type fakeLauncher struct {
	session *fakeSession
	openErr error
	opens   int
}

func (l *fakeLauncher) Open(_ context.Context) (render.Session, error) {
	l.opens++
	if l.openErr != nil {
		return nil, l.openErr
	}
	return l.session, nil
}

// fakeSleeper records waits without sleeping.
type fakeSleeper struct {
	mu     sync.Mutex
	waits  []time.Duration
	err    error
	failAt int // 1-based call that returns err; 0 means every call
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	if s.err != nil && (s.failAt == 0 || s.failAt == len(s.waits)) {
		return s.err
	}
	return nil
}

func (s *fakeSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waits)
}
