package services

import (
	"context"
	"errors"
	"testing"

	"uprate/backend/models"
	"uprate/backend/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	c := NewCredentials(mem)
	id, err := c.Register(ctx, "Ada", "ada@uprate.io", "hunter22", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stored, _ := mem.GetUser(ctx, id)
	if stored.PasswordHash == "hunter22" || stored.PasswordHash == "" {
		t.Errorf("password stored in plaintext")
	}
	u, err := c.Authenticate(ctx, "ada@uprate.io", "hunter22")
	if err != nil || u == nil {
		t.Fatalf("expected success, got %v %v", u, err)
	}
	if u.ID != id || u.Email != "ada@uprate.io" {
		t.Errorf("unexpected safe user %+v", u)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	c := NewCredentials(store.NewMemory())
	if _, err := c.Register(ctx, "Ada", "ada@uprate.io", "pw", true); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Register(ctx, "Other", "ada@uprate.io", "pw2", true); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	c := NewCredentials(store.NewMemory())
	c.Register(ctx, "Ada", "ada@uprate.io", "right", true)
	c.Register(ctx, "Ina", "ina@uprate.io", "right", false)

	cases := []struct{ name, email, pw string }{
		{"unknown email", "nobody@uprate.io", "right"},
		{"wrong password", "ada@uprate.io", "wrong"},
		{"inactive account", "ina@uprate.io", "right"},
	}
	for _, tc := range cases {
		u, err := c.Authenticate(ctx, tc.email, tc.pw)
		if u != nil || err != nil {
			t.Errorf("%s: expected nil, nil; got %v, %v", tc.name, u, err)
		}
	}
}

func TestUpdateHashesPassword(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	c := NewCredentials(mem)
	id, _ := c.Register(ctx, "Ada", "ada@uprate.io", "old", true)
	pw := "new-password"
	u, err := c.Update(ctx, id, models.UserUpdate{Password: &pw})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.PasswordChangedAt == nil {
		t.Errorf("expected passwordChangedAt to be set")
	}
	if got, _ := c.Authenticate(ctx, "ada@uprate.io", "new-password"); got == nil {
		t.Errorf("new password rejected")
	}
	if got, _ := c.Authenticate(ctx, "ada@uprate.io", "old"); got != nil {
		t.Errorf("old password still accepted")
	}
	var ve *ValidationError
	if _, err := c.Update(ctx, id, models.UserUpdate{}); !errors.As(err, &ve) {
		t.Errorf("expected validation error for empty patch, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	c := NewCredentials(store.NewMemory())
	id, _ := c.Register(ctx, "Ada", "ada@uprate.io", "old", true)
	if _, err := c.ChangePassword(ctx, id, "   "); err == nil {
		t.Errorf("blank password should be rejected")
	}
	u, err := c.ChangePassword(ctx, id, "fresh-one")
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if u.PasswordChangedAt == nil {
		t.Errorf("expected passwordChangedAt to be set")
	}
	if got, _ := c.Authenticate(ctx, "ada@uprate.io", "fresh-one"); got == nil {
		t.Errorf("new password rejected")
	}
	if _, err := c.ChangePassword(ctx, "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	c := NewCredentials(store.NewMemory())
	id, _ := c.Register(ctx, "Ada", "ada@uprate.io", "pw", true)
	u, err := c.SetActive(ctx, id, false)
	if err != nil || u.Active {
		t.Fatalf("deactivate: %+v %v", u, err)
	}
	if got, _ := c.Authenticate(ctx, "ada@uprate.io", "pw"); got != nil {
		t.Errorf("inactive user authenticated")
	}
	if u, _ = c.SetActive(ctx, id, true); !u.Active {
		t.Errorf("reactivate failed")
	}
	if got, _ := c.Authenticate(ctx, "ada@uprate.io", "pw"); got == nil {
		t.Errorf("reactivated user rejected")
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	c := NewCredentials(store.NewMemory())
	id, _ := c.Register(ctx, "Ada", "ada@uprate.io", "pw", true)
	blank := "   "
	_, err := c.Update(ctx, id, models.UserUpdate{Name: &blank})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	u, _ := c.Get(ctx, id)
	if u.Name != "Ada" {
		t.Errorf("name changed to %q", u.Name)
	}
	padded := "  Ada L. "
	if u, err = c.Update(ctx, id, models.UserUpdate{Name: &padded}); err != nil || u.Name != "Ada L." {
		t.Errorf("expected trimmed name, got %+v %v", u, err)
	}
}
