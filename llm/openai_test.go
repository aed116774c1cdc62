package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"uprate/backend/config"
)

func TestOpenAICompleteSendsChatBody(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer key, got %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"a\",\"b\"]"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL, "gpt-3.5-turbo", "k")
	out, err := p.Complete(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `["a","b"]` {
		t.Errorf("unexpected content %q", out)
	}
	if got.Model != "gpt-3.5-turbo" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "usr" {
		t.Errorf("unexpected request body %+v", got)
	}
}

func TestOpenAIStructuredErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "m", "bad").Complete(context.Background(), "", "x")
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if up.Message != "Incorrect API key provided" {
		t.Errorf("unexpected message %q", up.Message)
	}
}

func TestOpenAINonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	if _, err := NewOpenAI(srv.URL, "m", "k").Complete(context.Background(), "", "x"); err == nil {
		t.Errorf("expected error for non-JSON body")
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := NewOpenAI(srv.URL, "m", "k").Complete(context.Background(), "", "x"); err == nil {
		t.Errorf("expected error for empty choices")
	}
}

func TestFromConfigPrefersOpenAI(t *testing.T) {
	if b := FromConfig(config.Config{}); b != nil {
		t.Errorf("expected nil backend without keys, got %T", b)
	}
	if b := FromConfig(config.Config{GeminiAPIKey: "g"}); b == nil || b.Name() != "gemini" {
		t.Errorf("expected gemini backend")
	}
	if b := FromConfig(config.Config{GeminiAPIKey: "g", OpenAIAPIKey: "o"}); b == nil || b.Name() != "openai" {
		t.Errorf("expected openai backend to win")
	}
}
