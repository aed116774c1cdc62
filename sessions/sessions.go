// Package sessions keeps server-side, per-visitor state: cached review
// drafts, live rating flows and revoked admin tokens. Entries expire after
// a TTL of inactivity.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"uprate/backend/flow"
	"uprate/backend/models"
)

// Stage is where an admin visitor stands in the console's two-step gate.
type Stage int

const (
	Anonymous Stage = iota
	PassedGate
	Authenticated
)

func (s Stage) String() string {
	switch s {
	case PassedGate:
		return "passed_gate"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}

// Admin is the typed console session carried through the request context.
type Admin struct {
	Stage   Stage
	UserID  string
	TokenID string
	Expires time.Time
}

type visitor struct {
	drafts map[string][]string
	flows  map[string]*flow.Controller
	seen   time.Time
}

type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	visitors map[string]*visitor
	revoked  map[string]time.Time
	now      func() time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		visitors: make(map[string]*visitor),
		revoked:  make(map[string]time.Time),
		now:      time.Now,
	}
}

func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an id this package issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// visitorLocked returns the live visitor for sid, creating it if needed.
// Caller holds mu.
func (s *Store) visitorLocked(sid string) *visitor {
	v, ok := s.visitors[sid]
	now := s.now()
	if !ok || now.Sub(v.seen) > s.ttl {
		v = &visitor{drafts: map[string][]string{}, flows: map[string]*flow.Controller{}}
		s.visitors[sid] = v
	}
	v.seen = now
	return v
}

// Flow returns the visitor's rating flow for b, building a new one when
// none exists or the business record changed since it was built.
func (s *Store) Flow(sid string, b *models.Business, build func(cache flow.DraftCache) *flow.Controller) *flow.Controller {
	s.mu.Lock()
	v := s.visitorLocked(sid)
	c, ok := v.flows[b.Slug]
	s.mu.Unlock()
	if ok && c.Business().UpdatedAt == b.UpdatedAt && c.Business().ID == b.ID {
		return c
	}
	c = build(s.Drafts(sid))
	s.mu.Lock()
	v = s.visitorLocked(sid)
	v.flows[b.Slug] = c
	s.mu.Unlock()
	return c
}

// Drafts is the visitor's draft cache, keyed by business slug.
func (s *Store) Drafts(sid string) flow.DraftCache {
	return draftCache{store: s, sid: sid}
}

// Clear forgets everything held for sid.
func (s *Store) Clear(sid string) {
	s.mu.Lock()
	delete(s.visitors, sid)
	s.mu.Unlock()
}

func (s *Store) Revoke(tokenID string, until time.Time) {
	s.mu.Lock()
	s.revoked[tokenID] = until
	s.mu.Unlock()
}

func (s *Store) IsRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until)
}

// Sweep drops expired visitors and revocations whose tokens have expired
// anyway. It returns how many visitors were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, v := range s.visitors {
		if now.Sub(v.seen) > s.ttl {
			delete(s.visitors, id)
			n++
		}
	}
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	return n
}

// Janitor sweeps every interval until ctx is done.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

type draftCache struct {
	store *Store
	sid   string
}

func (d draftCache) LoadDrafts(slug string) ([]string, bool) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	drafts, ok := d.store.visitorLocked(d.sid).drafts[slug]
	if !ok {
		return nil, false
	}
	return append([]string(nil), drafts...), true
}

func (d draftCache) SaveDrafts(slug string, drafts []string) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.visitorLocked(d.sid).drafts[slug] = append([]string(nil), drafts...)
}

func (d draftCache) ClearDrafts(slug string) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	delete(d.store.visitorLocked(d.sid).drafts, slug)
}
