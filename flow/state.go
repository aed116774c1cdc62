// Package flow is the customer-facing rating flow: answer prompts, pick a
// generated draft, then follow the posting instructions.
package flow

import (
	"errors"
	"strings"
)

type Step int

const (
	StepQuestions    Step = 1
	StepDrafts       Step = 2
	StepInstructions Step = 3
)

func (s Step) String() string {
	switch s {
	case StepQuestions:
		return "questions"
	case StepDrafts:
		return "drafts"
	case StepInstructions:
		return "instructions"
	}
	return "unknown"
}

// OtherAnswer is the implicit free-text option appended to every question.
const OtherAnswer = "Other"

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrBusy              = errors.New("generation already in progress")
)

// ValidationError blocks a transition until the customer fixes the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type State struct {
	Step          Step           `json:"step"`
	Answers       map[int]string `json:"answers"`
	CustomAnswers map[int]string `json:"customAnswers"`
	Options       []string       `json:"options"`
	Loading       bool           `json:"loading"`
	Selected      int            `json:"selected"`
	Notice        string         `json:"notice,omitempty"`
}

func NewState() State {
	return State{Step: StepQuestions, Answers: map[int]string{}, CustomAnswers: map[int]string{}, Selected: -1}
}

func (s State) clone() State {
	out := s
	out.Answers = make(map[int]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.CustomAnswers = make(map[int]string, len(s.CustomAnswers))
	for k, v := range s.CustomAnswers {
		out.CustomAnswers[k] = v
	}
	out.Options = append([]string(nil), s.Options...)
	out.Notice = ""
	return out
}

type EventKind int

const (
	EventAnswer EventKind = iota
	EventCustomAnswer
	EventGenerate
	EventGenerated
	EventGenerateFailed
	EventSelect
	EventBackToDrafts
	EventBackToQuestions
	EventResume
)

type Event struct {
	Kind    EventKind
	Index   int
	Value   string
	Options []string
}

// Transition applies e to s for a business with questionCount questions.
// It never mutates s; on error the returned state is s unchanged.
func Transition(s State, e Event, questionCount int) (State, error) {
	next := s.clone()
	switch e.Kind {
	case EventAnswer:
		if s.Step != StepQuestions || s.Loading {
			return s, ErrIllegalTransition
		}
		if e.Index < 0 || e.Index >= questionCount {
			return s, &ValidationError{Message: "Unknown question"}
		}
		next.Answers[e.Index] = e.Value
		if e.Value != OtherAnswer {
			delete(next.CustomAnswers, e.Index)
		}
	case EventCustomAnswer:
		if s.Step != StepQuestions || s.Loading {
			return s, ErrIllegalTransition
		}
		if e.Index < 0 || e.Index >= questionCount {
			return s, &ValidationError{Message: "Unknown question"}
		}
		next.CustomAnswers[e.Index] = e.Value
	case EventGenerate:
		if s.Loading {
			return s, ErrBusy
		}
		if s.Step != StepQuestions {
			return s, ErrIllegalTransition
		}
		if err := validateAnswers(s, questionCount); err != nil {
			return s, err
		}
		next.Step = StepDrafts
		next.Loading = true
		next.Options = nil
		next.Selected = -1
	case EventGenerated:
		if s.Step != StepDrafts || !s.Loading {
			return s, ErrIllegalTransition
		}
		if len(e.Options) == 0 {
			return s, &ValidationError{Message: "No drafts returned"}
		}
		next.Loading = false
		next.Options = append([]string(nil), e.Options...)
	case EventGenerateFailed:
		if !s.Loading {
			return s, ErrIllegalTransition
		}
		next.Step = StepQuestions
		next.Loading = false
		next.Options = nil
		next.Notice = e.Value
	case EventSelect:
		if s.Step != StepDrafts || s.Loading {
			return s, ErrIllegalTransition
		}
		if e.Index < 0 || e.Index >= len(s.Options) {
			return s, &ValidationError{Message: "Unknown review option"}
		}
		next.Step = StepInstructions
		next.Selected = e.Index
	case EventBackToDrafts:
		if s.Step != StepInstructions {
			return s, ErrIllegalTransition
		}
		next.Step = StepDrafts
		next.Selected = -1
	case EventBackToQuestions:
		if s.Step != StepDrafts || s.Loading {
			return s, ErrIllegalTransition
		}
		next.Step = StepQuestions
		next.Options = nil
	case EventResume:
		if s.Step != StepQuestions || s.Loading || len(e.Options) == 0 {
			return s, ErrIllegalTransition
		}
		next.Step = StepDrafts
		next.Options = append([]string(nil), e.Options...)
	default:
		return s, ErrIllegalTransition
	}
	return next, nil
}

func validateAnswers(s State, questionCount int) error {
	for i := 0; i < questionCount; i++ {
		if _, ok := s.Answers[i]; !ok {
			return &ValidationError{Message: "Please answer all questions"}
		}
	}
	for i := 0; i < questionCount; i++ {
		if s.Answers[i] == OtherAnswer && strings.TrimSpace(s.CustomAnswers[i]) == "" {
			return &ValidationError{Message: "Please specify your answer for 'Other'"}
		}
	}
	return nil
}
