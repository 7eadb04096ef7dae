package filter

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

// Session binds one client's applied-filter store, its draft and its
// result-list pagination. All handlers for a given session id operate
// on the same instance, which gives the HTTP surface the single-writer
// semantics the store assumes.
type Session struct {
	ID    string
	Store *Store
	Draft *Draft

	mu   sync.Mutex
	page int
}

func newSession(id string) *Session {
	store := NewStore()
	return &Session{
		ID:    id,
		Store: store,
		Draft: NewDraft(store),
		page:  1,
	}
}

// Page returns the current result page (1-based).
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage moves pagination; values below 1 are treated as 1.
func (s *Session) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.mu.Lock()
	s.page = p
	s.mu.Unlock()
}

// Apply commits the draft and resets pagination to the first page.
func (s *Session) Apply() {
	s.Draft.Apply()
	s.SetPage(1)
}

// Clear resets the applied filters and pagination.
func (s *Session) Clear() {
	s.Draft.Clear()
	s.SetPage(1)
}

// Sessions is a TTL-evicted registry of live filter sessions.
type Sessions struct {
	cache   *gocache.Cache
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// NewSessions creates a registry whose sessions expire after ttl of
// inactivity.
func NewSessions(ttl time.Duration, m *metrics.Metrics) *Sessions {
	c := gocache.New(ttl, 2*ttl)
	s := &Sessions{cache: c, metrics: m}
	if m != nil {
		c.OnEvicted(func(string, interface{}) {
			m.ActiveSessions.Dec()
		})
	}
	return s
}

// Get returns the session for id, creating it on first use. Every hit
// refreshes the TTL.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		sess := v.(*Session)
		s.cache.SetDefault(id, sess)
		return sess
	}

	sess := newSession(id)
	s.cache.SetDefault(id, sess)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return sess
}
