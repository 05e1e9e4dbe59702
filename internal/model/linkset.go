package model

import "sync"

// LinkSet is a set of absolute URLs that is safe for concurrent use.
// Iteration order is insertion order.
type LinkSet struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{seen: make(map[string]struct{})}
}

// Add inserts links and returns how many were not already present.
func (s *LinkSet) Add(links ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, link := range links {
		if link == "" {
			continue
		}
		if _, ok := s.seen[link]; ok {
			continue
		}
		s.seen[link] = struct{}{}
		s.order = append(s.order, link)
		added++
	}
	return added
}

// Contains reports whether link is in the set.
func (s *LinkSet) Contains(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[link]
	return ok
}

// Len returns the number of links in the set.
func (s *LinkSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Links returns a copy of the links in insertion order.
func (s *LinkSet) Links() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
