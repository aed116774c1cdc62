package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string // empty runs against the in-memory store
	JWTSecret   string
	CORSOrigins []string

	GateUsername string
	GatePassword string

	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIAPIURL string
	GeminiAPIKey string
	GeminiModel  string

	GenerateTimeout time.Duration
	SessionTTL      time.Duration
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:            get("PORT", "8080"),
		DatabaseURL:     get("DATABASE_URL", ""),
		JWTSecret:       must("JWT_SECRET"),
		CORSOrigins:     splitList(get("CORS_ORIGINS", "*")),
		GateUsername:    get("GATE_USERNAME", "please"),
		GatePassword:    get("GATE_PASSWORD", "allow"),
		OpenAIAPIKey:    get("OPENAI_API_KEY", ""),
		OpenAIModel:     get("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIAPIURL:    get("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		GeminiAPIKey:    get("GEMINI_API_KEY", ""),
		GeminiModel:     get("GEMINI_MODEL", "gemini-2.5-pro"),
		GenerateTimeout: duration("GENERATE_TIMEOUT", 30*time.Second),
		SessionTTL:      duration("SESSION_TTL", 24*time.Hour),
	}
	return cfg
}

// GenerationConfigured reports whether any text-generation credential is set.
func (c Config) GenerationConfigured() bool {
	return c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config %s invalid duration %q, using %s", k, v, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
