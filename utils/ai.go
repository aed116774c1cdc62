package utils

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type AIConfig struct {
	APIKey   string
	GenModel string
}

func NewAIClient(ctx context.Context, cfg AIConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
}

// GenerateText runs one prompt and concatenates every text part of every
// candidate.
func GenerateText(ctx context.Context, client *genai.Client, model string, parts ...genai.Part) (string, error) {
	m := client.GenerativeModel(model)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(ExtractText(resp)), nil
}

func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// StripFences removes markdown code fences (``` or ```json) wrapped around
// model output.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	t = strings.ReplaceAll(t, "```json", "")
	t = strings.ReplaceAll(t, "```JSON", "")
	t = strings.ReplaceAll(t, "```", "")
	return strings.TrimSpace(t)
}
