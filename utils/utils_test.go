package utils

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	h, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "s3cret!" || !strings.HasPrefix(h, "$2a$12$") {
		t.Errorf("expected bcrypt cost 12 hash, got %q", h)
	}
	if !CheckPasswordHash("s3cret!", h) {
		t.Errorf("correct password rejected")
	}
	if CheckPasswordHash("wrong", h) {
		t.Errorf("wrong password accepted")
	}
	h2, _ := HashPassword("s3cret!")
	if h2 == h {
		t.Errorf("expected per-call salt to change the hash")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	tok, jti, err := GenerateJWT("secret", StageAdmin, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c, err := ParseJWT("secret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Stage != StageAdmin || c.UserID != "user-1" || c.ID != jti {
		t.Errorf("unexpected claims %+v", c)
	}
	if _, err := ParseJWT("other", tok); err == nil {
		t.Errorf("expected signature failure with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	tok, _, _ := GenerateJWT("secret", StageGate, "", -time.Minute)
	if _, err := ParseJWT("secret", tok); err == nil {
		t.Errorf("expected expired token to fail")
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[\"a\"]\n```": `["a"]`,
		"```\n[\"a\"]```":       `["a"]`,
		"  [\"a\"]  ":           `["a"]`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
