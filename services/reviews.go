package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"uprate/backend/llm"
	"uprate/backend/models"
	"uprate/backend/utils"
)

// DraftCount is how many review drafts every generation path yields.
const DraftCount = 4

// Draft sources, reported next to the drafts so degraded output can be told
// apart from model output.
const (
	SourceAI       = "ai"
	SourceOffline  = "offline"
	SourceFallback = "fallback"
)

const reviewSystemPrompt = "You are a helpful assistant that generates Google reviews."

type Drafts struct {
	Options []string `json:"options"`
	Source  string   `json:"source"`
}

// ReviewGenerator turns a customer's answers into review drafts. A nil
// backend means offline mode.
type ReviewGenerator struct {
	backend llm.Backend
}

func NewReviewGenerator(backend llm.Backend) *ReviewGenerator {
	return &ReviewGenerator{backend: backend}
}

func (g *ReviewGenerator) Configured() bool { return g.backend != nil }

// Generate always returns DraftCount non-empty drafts. Upstream failures are
// logged and replaced by templated text.
func (g *ReviewGenerator) Generate(ctx context.Context, businessName, businessType string, answers []models.AnswerPair) Drafts {
	if g.backend == nil {
		return Drafts{Options: offlineDrafts(businessName), Source: SourceOffline}
	}
	content, err := g.backend.Complete(ctx, reviewSystemPrompt, BuildReviewPrompt(businessName, businessType, answers))
	if err != nil {
		log.Printf("review generate %s error: %v", g.backend.Name(), err)
		return Drafts{Options: fallbackDrafts(businessName), Source: SourceFallback}
	}
	opts, err := ParseDrafts(content)
	if err != nil {
		log.Printf("review parse error: %v (content: %.200q)", err, content)
		return Drafts{Options: fallbackDrafts(businessName), Source: SourceFallback}
	}
	return Drafts{Options: opts, Source: SourceAI}
}

// GenerateDrafts adapts Generate to the rating flow's generator contract.
func (g *ReviewGenerator) GenerateDrafts(ctx context.Context, businessName, businessType string, answers []models.AnswerPair) ([]string, error) {
	return g.Generate(ctx, businessName, businessType, answers).Options, nil
}

// Preview is the admin-facing variant: a backend failure is returned so the
// caller can report it, while malformed content still degrades to the
// fallback set.
func (g *ReviewGenerator) Preview(ctx context.Context, businessName, businessType string, answers []models.AnswerPair) (Drafts, error) {
	if g.backend == nil {
		return Drafts{Options: offlineDrafts(businessName), Source: SourceOffline}, nil
	}
	content, err := g.backend.Complete(ctx, reviewSystemPrompt, BuildReviewPrompt(businessName, businessType, answers))
	if err != nil {
		var up *llm.UpstreamError
		if errors.As(err, &up) {
			return Drafts{}, errors.New(up.Message)
		}
		return Drafts{}, err
	}
	opts, err := ParseDrafts(content)
	if err != nil {
		return Drafts{Options: fallbackDrafts(businessName), Source: SourceFallback}, nil
	}
	return Drafts{Options: opts, Source: SourceAI}, nil
}

func BuildReviewPrompt(businessName, businessType string, answers []models.AnswerPair) string {
	if strings.TrimSpace(businessType) == "" {
		businessType = "business"
	}
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, "- "+a.Question+": "+a.Answer)
	}
	return fmt.Sprintf("Generate %d distinct, positive Google review options for a business named %q which offers %q.\n\n"+
		"Context from user experience:\n%s\n\n"+
		"Return ONLY a JSON array of strings, where each string is a review option. No markdown formatting.",
		DraftCount, businessName, businessType, strings.Join(lines, "\n"))
}

// ParseDrafts strips code fences and decodes a JSON array of exactly
// DraftCount non-empty strings.
func ParseDrafts(content string) ([]string, error) {
	var raw any
	if err := json.Unmarshal([]byte(utils.StripFences(content)), &raw); err != nil {
		return nil, err
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != DraftCount {
		return nil, fmt.Errorf("expected %d drafts, got %d", DraftCount, len(arr))
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, errors.New("draft is not a non-empty string")
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

func offlineDrafts(name string) []string {
	return []string{
		fmt.Sprintf("I had a great experience with %s. The service was excellent and I would highly recommend them.", name),
		fmt.Sprintf("Professional and efficient. %s delivered exactly what I needed.", name),
		fmt.Sprintf("Very satisfied with the quality of service at %s. Will definitely return.", name),
		fmt.Sprintf("Amazing experience! The team at %s was helpful and knowledgeable.", name),
	}
}

func fallbackDrafts(name string) []string {
	return []string{
		fmt.Sprintf("Great service at %s!", name),
		fmt.Sprintf("Highly recommend %s.", name),
		fmt.Sprintf("Excellent experience with %s.", name),
		fmt.Sprintf("Very professional team at %s.", name),
	}
}
