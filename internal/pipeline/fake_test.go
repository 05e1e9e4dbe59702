package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nao1215/datecrawl/internal/crawler"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/navigator"
)

// stubNavigator returns a fixed result or runs fn.
type stubNavigator struct {
	result navigator.Result
	fn     func(ctx context.Context, seed model.Seed) navigator.Result
}

func (n stubNavigator) Navigate(ctx context.Context, seed model.Seed, _ model.Date) navigator.Result {
	if n.fn != nil {
		return n.fn(ctx, seed)
	}
	return n.result
}

// stubResolver maps seed URLs to navigators.
type stubResolver struct {
	navigators map[string]navigator.Navigator
	err        error
}

func (r stubResolver) Navigator(seed model.Seed) (navigator.Navigator, error) {
	if r.err != nil {
		return nil, r.err
	}
	nav, ok := r.navigators[seed.PageURL]
	if !ok {
		return nil, errors.New("no navigator for " + seed.PageURL)
	}
	return nav, nil
}

func (r stubResolver) Collector(model.Seed) *crawler.Collector {
	return crawler.NewCollector()
}

// foundWithLinks builds a found result whose snapshot links to paths.
func foundWithLinks(pageURL string, paths ...string) navigator.Result {
	html := "<html><body>"
	for _, p := range paths {
		html += `<a href="` + p + `">x</a>`
	}
	html += "</body></html>"
	return navigator.Result{
		Outcome:  model.OutcomeFound,
		Snapshot: model.NewSnapshot(pageURL, []byte(html)),
		Steps:    1,
	}
}

// recordingSleeper records pacing waits without sleeping.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waits)
}

// atomicString is a mutex-guarded string for values written by handlers.
type atomicString struct {
	mu sync.Mutex
	v  string
}

func (s *atomicString) Store(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
}

func (s *atomicString) Load() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}
