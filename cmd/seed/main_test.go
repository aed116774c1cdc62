package main

import (
	"context"
	"testing"

	"uprate/backend/services"
	"uprate/backend/store"
)

func TestDemoBusinessIsValid(t *testing.T) {
	st := store.NewMemory()
	b, err := services.NewBusinesses(st, st).Create(context.Background(), DemoBusiness())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Slug != "joes-cafe" || len(b.Questions) != 2 {
		t.Fatalf("unexpected demo business: %+v", b)
	}
	if b.Location.Lat != 40.7128 || b.Location.Lng != -74.0060 {
		t.Fatalf("location not extracted: %+v", b.Location)
	}
}
