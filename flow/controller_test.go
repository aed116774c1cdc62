package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"uprate/backend/models"
)

type stubGenerator struct {
	drafts  []string
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	answers []models.AnswerPair
	btype   string
}

func (g *stubGenerator) GenerateDrafts(_ context.Context, _ string, btype string, answers []models.AnswerPair) ([]string, error) {
	g.calls++
	g.answers, g.btype = answers, btype
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
	return g.drafts, g.err
}

type mapCache struct {
	mu sync.Mutex
	m  map[string][]string
}

func newMapCache() *mapCache { return &mapCache{m: map[string][]string{}} }

func (c *mapCache) LoadDrafts(slug string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.m[slug]
	return d, ok
}
func (c *mapCache) SaveDrafts(slug string, d []string) { c.mu.Lock(); c.m[slug] = d; c.mu.Unlock() }
func (c *mapCache) ClearDrafts(slug string)            { c.mu.Lock(); delete(c.m, slug); c.mu.Unlock() }

type memClipboard struct{ text string }

func (m *memClipboard) WriteText(_ context.Context, text string) error { m.text = text; return nil }

type brokenClipboard struct{}

func (brokenClipboard) WriteText(context.Context, string) error { return errors.New("denied") }

func joesCafe() *models.Business {
	return &models.Business{
		Name:      "Joe's Cafe",
		Slug:      "joes-cafe",
		Type:      []string{"Cafe"},
		Questions: []models.Question{{Question: "How was the food?", Answers: []string{"Great", "Good"}}},
	}
}

var fourDrafts = []string{"Loved it", "Great food at Joe's", "Cozy spot", "Will return"}

func TestJoesCafeScenarioAndReload(t *testing.T) {
	cache := newMapCache()
	gen := &stubGenerator{drafts: fourDrafts}
	c := NewController(joesCafe(), gen, cache, time.Second)
	if c.State().Step != StepQuestions {
		t.Fatalf("expected questions step")
	}
	if _, err := c.Answer(0, "Great"); err != nil {
		t.Fatal(err)
	}
	st, err := c.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if st.Step != StepDrafts || st.Loading || len(st.Options) != 4 {
		t.Fatalf("unexpected state %+v", st)
	}
	if gen.btype != "Cafe" || gen.answers[0].Answer != "Great" || gen.answers[0].Question != "How was the food?" {
		t.Errorf("generator got %q %+v", gen.btype, gen.answers)
	}

	clip := &memClipboard{}
	st, err = c.Select(context.Background(), 1, clip)
	if err != nil {
		t.Fatal(err)
	}
	if clip.text != fourDrafts[1] || st.Step != StepInstructions {
		t.Errorf("clipboard %q state %v", clip.text, st.Step)
	}

	reloaded := NewController(joesCafe(), &stubGenerator{}, cache, time.Second)
	rs := reloaded.State()
	if rs.Step != StepDrafts || len(rs.Options) != 4 || rs.Options[1] != fourDrafts[1] {
		t.Errorf("reload should resume at drafts with cached list, got %+v", rs)
	}
}

func TestReloadAfterSelectReturnsToDrafts(t *testing.T) {
	cache := newMapCache()
	c := NewController(joesCafe(), &stubGenerator{drafts: fourDrafts}, cache, time.Second)
	c.Answer(0, "Good")
	if _, err := c.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Select(context.Background(), 2, &memClipboard{}); err != nil {
		t.Fatal(err)
	}
	st := c.Reload()
	if st.Step != StepDrafts || st.Selected != -1 || len(st.Options) != 4 || st.Options[2] != fourDrafts[2] {
		t.Fatalf("expected drafts step with cached list, got %+v", st)
	}

	if _, err := c.BackToQuestions(); err != nil {
		t.Fatal(err)
	}
	if st := c.Reload(); st.Step != StepQuestions || len(st.Options) != 0 {
		t.Fatalf("expected questions step once drafts are discarded, got %+v", st)
	}
}

func TestReloadWithoutCacheStartsOver(t *testing.T) {
	c := NewController(joesCafe(), &stubGenerator{drafts: fourDrafts}, nil, 0)
	c.Answer(0, "Great")
	if _, err := c.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := c.Reload()
	if st.Step != StepQuestions || len(st.Answers) != 0 {
		t.Fatalf("expected a clean questions step, got %+v", st)
	}
}

func TestOtherAnswerSendsCustomText(t *testing.T) {
	gen := &stubGenerator{drafts: fourDrafts}
	c := NewController(joesCafe(), gen, nil, 0)
	c.Answer(0, OtherAnswer)
	if _, err := c.Generate(context.Background()); err == nil {
		t.Fatalf("expected validation error without custom text")
	}
	if gen.calls != 0 {
		t.Errorf("generator should not run on invalid answers")
	}
	c.CustomAnswer(0, "  Fresh bagels ")
	if _, err := c.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gen.answers[0].Answer != "Fresh bagels" {
		t.Errorf("expected custom answer, got %q", gen.answers[0].Answer)
	}
}

func TestGeneratorErrorRevertsToQuestions(t *testing.T) {
	cache := newMapCache()
	c := NewController(joesCafe(), &stubGenerator{err: errors.New("boom")}, cache, 0)
	c.Answer(0, "Good")
	st, err := c.Generate(context.Background())
	if err != nil {
		t.Fatalf("failure should be non-fatal, got %v", err)
	}
	if st.Step != StepQuestions || st.Loading || st.Notice == "" || st.Answers[0] != "Good" {
		t.Errorf("unexpected state %+v", st)
	}
	if _, ok := cache.LoadDrafts("joes-cafe"); ok {
		t.Errorf("nothing should be cached on failure")
	}
}

func TestGenerateIsSingleFlight(t *testing.T) {
	gen := &stubGenerator{drafts: fourDrafts, block: make(chan struct{}), started: make(chan struct{})}
	c := NewController(joesCafe(), gen, nil, 0)
	c.Answer(0, "Great")

	done := make(chan State)
	go func() {
		st, _ := c.Generate(context.Background())
		done <- st
	}()
	<-gen.started
	if st := c.State(); !st.Loading || st.Step != StepDrafts {
		t.Errorf("expected optimistic loading drafts step, got %+v", st)
	}
	if _, err := c.Generate(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(gen.block)
	st := <-done
	if st.Loading || len(st.Options) != 4 {
		t.Errorf("unexpected final state %+v", st)
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call, got %d", gen.calls)
	}
}

func TestSelectClipboardFailureKeepsDrafts(t *testing.T) {
	c := NewController(joesCafe(), &stubGenerator{drafts: fourDrafts}, nil, 0)
	c.Answer(0, "Great")
	c.Generate(context.Background())
	st, err := c.Select(context.Background(), 0, brokenClipboard{})
	if err == nil || st.Step != StepDrafts {
		t.Errorf("expected error and drafts step, got %v %v", err, st.Step)
	}
}

func TestBackToQuestionsClearsCache(t *testing.T) {
	cache := newMapCache()
	c := NewController(joesCafe(), &stubGenerator{drafts: fourDrafts}, cache, 0)
	c.Answer(0, "Great")
	c.Generate(context.Background())
	if _, err := c.BackToQuestions(); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.LoadDrafts("joes-cafe"); ok {
		t.Errorf("cache should be cleared")
	}
}
