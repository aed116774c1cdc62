package sessions

import (
	"testing"
	"time"

	"uprate/backend/flow"
	"uprate/backend/models"
)

func TestDraftCacheIsPerVisitor(t *testing.T) {
	s := New(time.Hour)
	s.Drafts("a").SaveDrafts("joes-cafe", []string{"one"})
	if _, ok := s.Drafts("b").LoadDrafts("joes-cafe"); ok {
		t.Errorf("visitor b should not see visitor a's drafts")
	}
	got, ok := s.Drafts("a").LoadDrafts("joes-cafe")
	if !ok || got[0] != "one" {
		t.Errorf("expected cached drafts, got %v %v", got, ok)
	}
	s.Clear("a")
	if _, ok := s.Drafts("a").LoadDrafts("joes-cafe"); ok {
		t.Errorf("clear should drop drafts")
	}
}

func TestVisitorsExpire(t *testing.T) {
	s := New(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	s.Drafts("a").SaveDrafts("x", []string{"d"})
	now = now.Add(2 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("expected 1 expired visitor, got %d", n)
	}
	if _, ok := s.Drafts("a").LoadDrafts("x"); ok {
		t.Errorf("expired drafts should be gone")
	}
}

func TestRevocation(t *testing.T) {
	s := New(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }
	s.Revoke("jti-1", now.Add(time.Minute))
	if !s.IsRevoked("jti-1") || s.IsRevoked("jti-2") {
		t.Errorf("unexpected revocation state")
	}
	now = now.Add(2 * time.Minute)
	s.Sweep()
	if s.IsRevoked("jti-1") {
		t.Errorf("revocation should lapse with the token")
	}
}

func TestFlowRebuiltWhenBusinessChanges(t *testing.T) {
	s := New(time.Hour)
	b := &models.Business{ID: "1", Slug: "joes-cafe", UpdatedAt: 1}
	builds := 0
	build := func(cache flow.DraftCache) *flow.Controller {
		builds++
		return flow.NewController(b, nil, cache, 0)
	}
	c1 := s.Flow("v", b, build)
	c2 := s.Flow("v", b, build)
	if c1 != c2 || builds != 1 {
		t.Errorf("expected flow reuse, builds=%d", builds)
	}
	changed := *b
	changed.UpdatedAt = 2
	b = &changed
	if s.Flow("v", b, build) == c1 || builds != 2 {
		t.Errorf("expected rebuild after business update")
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(NewID()) || ValidID("../etc") {
		t.Errorf("unexpected ValidID result")
	}
}
