package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"uprate/backend/models"
)

// Memory is a process-local Store. Every uniqueness check runs under the
// same lock as the write it guards.
type Memory struct {
	mu         sync.RWMutex
	businesses map[string]*models.Business
	bizOrder   []string
	users      map[string]*models.AdminUser
	userOrder  []string
}

func NewMemory() *Memory {
	return &Memory{
		businesses: make(map[string]*models.Business),
		users:      make(map[string]*models.AdminUser),
	}
}

func (m *Memory) CreateBusiness(_ context.Context, b *models.Business) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(b.Slug, "") {
		return nil, ErrConflict
	}
	rec := cloneBusiness(b)
	rec.ID = uuid.NewString()
	rec.UniqueID = newUniqueID()
	now := nowMillis()
	rec.CreatedAt, rec.UpdatedAt = now, now
	m.businesses[rec.ID] = rec
	m.bizOrder = append(m.bizOrder, rec.ID)
	return cloneBusiness(rec), nil
}

func (m *Memory) GetBusiness(_ context.Context, id string) (*models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBusiness(b), nil
}

func (m *Memory) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.businesses {
		if b.Slug == slug {
			return cloneBusiness(b), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListBusinesses(_ context.Context) ([]models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Business, 0, len(m.bizOrder))
	for _, id := range m.bizOrder {
		out = append(out, *cloneBusiness(m.businesses[id]))
	}
	return out, nil
}

func (m *Memory) UpdateBusiness(_ context.Context, id string, upd models.BusinessUpdate) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Slug != nil && m.slugTaken(*upd.Slug, id) {
		return nil, ErrConflict
	}
	next := cloneBusiness(b)
	upd.Apply(next)
	next = cloneBusiness(next) // detach slices supplied by the patch
	next.UpdatedAt = nowMillis()
	m.businesses[id] = next
	return cloneBusiness(next), nil
}

func (m *Memory) DeleteBusiness(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.businesses[id]; !ok {
		return ErrNotFound
	}
	delete(m.businesses, id)
	m.bizOrder = without(m.bizOrder, id)
	return nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.AdminUser) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(u.Email, "") {
		return nil, ErrConflict
	}
	rec := cloneUser(u)
	rec.ID = uuid.NewString()
	now := nowMillis()
	rec.CreatedAt, rec.UpdatedAt = now, now
	m.users[rec.ID] = rec
	m.userOrder = append(m.userOrder, rec.ID)
	return cloneUser(rec), nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]models.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.AdminUser, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		out = append(out, *cloneUser(m.users[id]))
	}
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Email != nil && m.emailTaken(*upd.Email, id) {
		return nil, ErrConflict
	}
	next := cloneUser(u)
	applyUserUpdate(next, upd, nowMillis())
	m.users[id] = next
	return cloneUser(next), nil
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	m.userOrder = without(m.userOrder, id)
	return nil
}

func (m *Memory) slugTaken(slug, exceptID string) bool {
	for id, b := range m.businesses {
		if id != exceptID && b.Slug == slug {
			return true
		}
	}
	return false
}

func (m *Memory) emailTaken(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
