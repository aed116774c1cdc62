package llm

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	"uprate/backend/utils"
)

// Gemini opens a fresh genai client for every call.
type Gemini struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, system, user string) (string, error) {
	client, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: g.apiKey, GenModel: g.model})
	if err != nil {
		return "", err
	}
	defer client.Close()

	var parts []genai.Part
	if system != "" {
		parts = append(parts, genai.Text(system))
	}
	parts = append(parts, genai.Text(user))
	text, err := utils.GenerateText(ctx, client, g.model, parts...)
	if err != nil {
		return "", &UpstreamError{Backend: g.Name(), Message: err.Error()}
	}
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
