package flow

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"uprate/backend/models"
)

type Generator interface {
	GenerateDrafts(ctx context.Context, businessName, businessType string, answers []models.AnswerPair) ([]string, error)
}

// Clipboard receives the chosen draft.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// DraftCache keeps generated drafts per business slug for the lifetime of a
// customer session.
type DraftCache interface {
	LoadDrafts(slug string) ([]string, bool)
	SaveDrafts(slug string, drafts []string)
	ClearDrafts(slug string)
}

const generateFailedNotice = "Failed to generate reviews"

// Controller drives one customer's pass through one business's rating page.
// At most one generation runs at a time.
type Controller struct {
	mu       sync.Mutex
	business *models.Business
	gen      Generator
	cache    DraftCache
	timeout  time.Duration
	state    State
}

// NewController starts at the drafts step when the cache already holds
// drafts for the business, and at the questions step otherwise.
func NewController(b *models.Business, gen Generator, cache DraftCache, timeout time.Duration) *Controller {
	c := &Controller{business: b, gen: gen, cache: cache, timeout: timeout}
	c.state = c.initialState()
	return c
}

// initialState is what a fresh page load sees.
func (c *Controller) initialState() State {
	st := NewState()
	if c.cache == nil {
		return st
	}
	drafts, ok := c.cache.LoadDrafts(c.business.Slug)
	if !ok {
		return st
	}
	if next, err := Transition(st, Event{Kind: EventResume, Options: drafts}, len(c.business.Questions)); err == nil {
		return next
	}
	return st
}

// Reload restarts the flow the way a page reload does: at the drafts step
// when drafts are cached, at the questions step otherwise. A generation in
// flight is left to finish.
func (c *Controller) Reload() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Loading {
		c.state = c.initialState()
	}
	return c.state.clone()
}

func (c *Controller) Business() *models.Business { return c.business }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) apply(e Event) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Transition(c.state, e, len(c.business.Questions))
	if err != nil {
		return c.state.clone(), err
	}
	c.state = next
	return next.clone(), nil
}

func (c *Controller) Answer(idx int, value string) (State, error) {
	return c.apply(Event{Kind: EventAnswer, Index: idx, Value: value})
}

func (c *Controller) CustomAnswer(idx int, value string) (State, error) {
	return c.apply(Event{Kind: EventCustomAnswer, Index: idx, Value: value})
}

// Generate validates the answers, moves to the loading drafts step, and
// resolves it with the generator's drafts. A generator error returns the
// flow to the questions step with a notice; answers are left untouched.
func (c *Controller) Generate(ctx context.Context) (State, error) {
	c.mu.Lock()
	next, err := Transition(c.state, Event{Kind: EventGenerate}, len(c.business.Questions))
	if err != nil {
		st := c.state.clone()
		c.mu.Unlock()
		return st, err
	}
	c.state = next
	answers := c.formattedAnswers()
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	drafts, gerr := c.gen.GenerateDrafts(ctx, c.business.Name, c.business.PrimaryType(), answers)
	if gerr == nil && len(drafts) == 0 {
		gerr = errors.New("generator returned no drafts")
	}

	if gerr != nil {
		log.Printf("rating generate %s error: %v", c.business.Slug, gerr)
		st, _ := c.apply(Event{Kind: EventGenerateFailed, Value: generateFailedNotice})
		return st, nil
	}
	st, err := c.apply(Event{Kind: EventGenerated, Options: drafts})
	if err != nil {
		return st, err
	}
	if c.cache != nil {
		c.cache.SaveDrafts(c.business.Slug, drafts)
	}
	return st, nil
}

// Select copies draft idx to the clipboard and moves to the instructions
// step. A failed clipboard write leaves the state where it was.
func (c *Controller) Select(ctx context.Context, idx int, clip Clipboard) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Transition(c.state, Event{Kind: EventSelect, Index: idx}, len(c.business.Questions))
	if err != nil {
		return c.state.clone(), err
	}
	if clip != nil {
		if err := clip.WriteText(ctx, c.state.Options[idx]); err != nil {
			return c.state.clone(), err
		}
	}
	c.state = next
	return next.clone(), nil
}

func (c *Controller) BackToDrafts() (State, error) {
	return c.apply(Event{Kind: EventBackToDrafts})
}

// BackToQuestions discards the drafts so a reload does not resume them.
func (c *Controller) BackToQuestions() (State, error) {
	st, err := c.apply(Event{Kind: EventBackToQuestions})
	if err == nil && c.cache != nil {
		c.cache.ClearDrafts(c.business.Slug)
	}
	return st, err
}

// formattedAnswers pairs each question with its answer, substituting the
// custom text for "Other". Caller holds mu.
func (c *Controller) formattedAnswers() []models.AnswerPair {
	out := make([]models.AnswerPair, 0, len(c.business.Questions))
	for i, q := range c.business.Questions {
		a := c.state.Answers[i]
		if a == OtherAnswer {
			a = strings.TrimSpace(c.state.CustomAnswers[i])
		}
		out = append(out, models.AnswerPair{Question: q.Question, Answer: a})
	}
	return out
}
