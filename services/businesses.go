package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"uprate/backend/models"
	"uprate/backend/store"
)

type Businesses struct {
	store store.BusinessStore
	users store.UserStore
}

func NewBusinesses(bs store.BusinessStore, us store.UserStore) *Businesses {
	return &Businesses{store: bs, users: us}
}

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9-]`)
	mapCoordRe = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
)

// Slugify lowercases, turns whitespace runs into "-" and drops everything
// outside [a-z0-9-].
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRe.ReplaceAllString(s, "-")
	return nonSlugRe.ReplaceAllString(s, "")
}

// ExtractLocation reads the "@lat,lng" pair from a Google Maps link.
func ExtractLocation(link string) (models.Location, bool) {
	m := mapCoordRe.FindStringSubmatch(link)
	if len(m) < 3 {
		return models.Location{}, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return models.Location{}, false
	}
	return models.Location{Lat: lat, Lng: lng}, true
}

func (s *Businesses) Create(ctx context.Context, in models.BusinessInput) (*models.Business, error) {
	b := &models.Business{
		Name:           strings.TrimSpace(in.Name),
		Slug:           strings.TrimSpace(in.Slug),
		Type:           cleanTypes(in.Type),
		GoogleLink:     strings.TrimSpace(in.GoogleLink),
		ReviewPageLink: strings.TrimSpace(in.ReviewPageLink),
		Questions:      cleanQuestions(in.Questions),
		ColorScheme:    in.ColorScheme,
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Name)
	}
	if b.Name == "" || b.Slug == "" {
		return nil, &ValidationError{Message: "Name and Slug are required."}
	}
	if b.ColorScheme == "" {
		b.ColorScheme = models.ColorZinc
	}
	if !b.ColorScheme.Valid() {
		return nil, &ValidationError{Message: "Unknown color scheme."}
	}
	if in.Location != nil {
		b.Location = *in.Location
	} else if loc, ok := ExtractLocation(b.GoogleLink); ok {
		b.Location = loc
	}
	return s.store.CreateBusiness(ctx, b)
}

func (s *Businesses) Update(ctx context.Context, id string, upd models.BusinessUpdate) (*models.Business, error) {
	if upd.Empty() {
		return nil, &ValidationError{Message: "Nothing to update."}
	}
	if upd.Name != nil {
		n := strings.TrimSpace(*upd.Name)
		if n == "" {
			return nil, &ValidationError{Message: "Name and Slug are required."}
		}
		upd.Name = &n
	}
	if upd.Slug != nil {
		sl := strings.TrimSpace(*upd.Slug)
		if sl == "" {
			return nil, &ValidationError{Message: "Name and Slug are required."}
		}
		upd.Slug = &sl
	}
	if upd.ColorScheme != nil && !upd.ColorScheme.Valid() {
		return nil, &ValidationError{Message: "Unknown color scheme."}
	}
	if upd.Type != nil {
		t := cleanTypes(*upd.Type)
		upd.Type = &t
	}
	if upd.Questions != nil {
		q := cleanQuestions(*upd.Questions)
		upd.Questions = &q
	}
	if upd.GoogleLink != nil && upd.Location == nil {
		if loc, ok := ExtractLocation(*upd.GoogleLink); ok {
			upd.Location = &loc
		}
	}
	return s.store.UpdateBusiness(ctx, id, upd)
}

func (s *Businesses) Get(ctx context.Context, id string) (*models.Business, error) {
	return s.store.GetBusiness(ctx, id)
}

func (s *Businesses) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	return s.store.GetBusinessBySlug(ctx, slug)
}

// List returns every business, narrowed to those whose name or slug
// contains query (case-insensitive) when query is non-empty.
func (s *Businesses) List(ctx context.Context, query string) ([]models.Business, error) {
	all, err := s.store.ListBusinesses(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	out := []models.Business{}
	for _, b := range all {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Slug), q) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Businesses) Delete(ctx context.Context, id string) error {
	return s.store.DeleteBusiness(ctx, id)
}

type Stats struct {
	TotalBusinesses int `json:"totalBusinesses"`
	TotalQuestions  int `json:"totalQuestions"`
	TotalUsers      int `json:"totalUsers"`
	ActiveUsers     int `json:"activeUsers"`
}

// Stats computes the dashboard counters.
func (s *Businesses) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	bs, err := s.store.ListBusinesses(ctx)
	if err != nil {
		return st, err
	}
	st.TotalBusinesses = len(bs)
	for _, b := range bs {
		st.TotalQuestions += len(b.Questions)
	}
	us, err := s.users.ListUsers(ctx)
	if err != nil {
		return st, err
	}
	st.TotalUsers = len(us)
	for _, u := range us {
		if u.Active {
			st.ActiveUsers++
		}
	}
	return st, nil
}

func cleanTypes(in []string) []string {
	out := []string{}
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// cleanQuestions drops blank questions and blank answer options. A question
// may still end up with no answers; the rating page shows only "Other" then.
func cleanQuestions(in []models.Question) []models.Question {
	out := []models.Question{}
	for _, q := range in {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}
		answers := []string{}
		for _, a := range q.Answers {
			if a = strings.TrimSpace(a); a != "" {
				answers = append(answers, a)
			}
		}
		out = append(out, models.Question{Question: text, Answers: answers})
	}
	return out
}
