package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uprate/backend/llm"
	"uprate/backend/models"
)

type fakeBackend struct {
	content string
	err     error
	system  string
	prompt  string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.prompt = system, user
	return f.content, f.err
}

func assertDrafts(t *testing.T, opts []string, name string) {
	t.Helper()
	if len(opts) != DraftCount {
		t.Fatalf("expected %d drafts, got %d", DraftCount, len(opts))
	}
	for i, o := range opts {
		if strings.TrimSpace(o) == "" || !strings.Contains(o, name) {
			t.Errorf("draft %d = %q, want non-empty and containing %q", i, o, name)
		}
	}
}

func TestGenerateOfflineWithoutBackend(t *testing.T) {
	g := NewReviewGenerator(nil)
	d := g.Generate(context.Background(), "Joe's Cafe", "Cafe", nil)
	if d.Source != SourceOffline {
		t.Errorf("expected offline source, got %s", d.Source)
	}
	assertDrafts(t, d.Options, "Joe's Cafe")
	if g.Configured() {
		t.Errorf("nil backend should not be configured")
	}
}

func TestGenerateParsesFencedJSON(t *testing.T) {
	fb := &fakeBackend{content: "```json\n[\"one\",\"two\",\"three\",\"four\"]\n```"}
	d := NewReviewGenerator(fb).Generate(context.Background(), "Joe's Cafe", "Cafe",
		[]models.AnswerPair{{Question: "How was the food?", Answer: "Great"}})
	if d.Source != SourceAI || d.Options[3] != "four" {
		t.Errorf("unexpected drafts %+v", d)
	}
	if !strings.Contains(fb.prompt, "- How was the food?: Great") || !strings.Contains(fb.prompt, `"Joe's Cafe"`) {
		t.Errorf("prompt missing context: %q", fb.prompt)
	}
	if !strings.Contains(fb.prompt, "JSON array of strings") || fb.system == "" {
		t.Errorf("prompt missing format instruction")
	}
}

func TestGenerateMalformedJSONFallsBack(t *testing.T) {
	d := NewReviewGenerator(&fakeBackend{content: "Sure! Here are some reviews: 1. Great"}).
		Generate(context.Background(), "Joe's Cafe", "Cafe", nil)
	if d.Source != SourceFallback {
		t.Errorf("expected fallback, got %s", d.Source)
	}
	assertDrafts(t, d.Options, "Joe's Cafe")
	if d.Options[0] != "Great service at Joe's Cafe!" {
		t.Errorf("expected second fallback set, got %q", d.Options[0])
	}
}

func TestGenerateNonArrayAndWrongLengthFallBack(t *testing.T) {
	for _, content := range []string{`{"reviews":["a"]}`, `["a","b"]`, `["a","b","c",""]`, `[1,2,3,4]`} {
		d := NewReviewGenerator(&fakeBackend{content: content}).Generate(context.Background(), "Bo", "", nil)
		if d.Source != SourceFallback {
			t.Errorf("content %s: expected fallback, got %s", content, d.Source)
		}
		assertDrafts(t, d.Options, "Bo")
	}
}

func TestGenerateUpstreamErrorFallsBack(t *testing.T) {
	fb := &fakeBackend{err: &llm.UpstreamError{Backend: "fake", Message: "quota exceeded"}}
	d := NewReviewGenerator(fb).Generate(context.Background(), "Joe's Cafe", "Cafe", nil)
	if d.Source != SourceFallback {
		t.Errorf("expected fallback, got %s", d.Source)
	}
	assertDrafts(t, d.Options, "Joe's Cafe")
}

func TestPreviewSurfacesUpstreamMessage(t *testing.T) {
	fb := &fakeBackend{err: &llm.UpstreamError{Backend: "fake", Message: "quota exceeded"}}
	_, err := NewReviewGenerator(fb).Preview(context.Background(), "Joe's Cafe", "Cafe", nil)
	if err == nil || err.Error() != "quota exceeded" {
		t.Errorf("expected upstream message, got %v", err)
	}
	_, err = NewReviewGenerator(&fakeBackend{err: errors.New("dial tcp: refused")}).Preview(context.Background(), "X", "", nil)
	if err == nil {
		t.Errorf("expected transport error to surface")
	}
}

func TestBuildReviewPromptDefaultsType(t *testing.T) {
	p := BuildReviewPrompt("Joe's Cafe", "", nil)
	if !strings.Contains(p, `"business"`) {
		t.Errorf("expected default business type in %q", p)
	}
}
