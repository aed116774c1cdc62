// Package store holds the business and admin-user records. Slug and email
// uniqueness are enforced here, atomically with the write.
package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"uprate/backend/models"
)

var (
	ErrConflict = errors.New("record conflict")
	ErrNotFound = errors.New("record not found")
)

type BusinessStore interface {
	CreateBusiness(ctx context.Context, b *models.Business) (*models.Business, error)
	GetBusiness(ctx context.Context, id string) (*models.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	ListBusinesses(ctx context.Context) ([]models.Business, error)
	UpdateBusiness(ctx context.Context, id string, upd models.BusinessUpdate) (*models.Business, error)
	DeleteBusiness(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.AdminUser) (*models.AdminUser, error)
	GetUser(ctx context.Context, id string) (*models.AdminUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	ListUsers(ctx context.Context) ([]models.AdminUser, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.AdminUser, error)
	DeleteUser(ctx context.Context, id string) error
}

// Store is the full record store.
type Store interface {
	BusinessStore
	UserStore
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// newUniqueID returns a five character base36 display token. It is not a
// lookup key and may collide.
func newUniqueID() string {
	const lo, hi = 1679616, 60466176 // 36^4, 36^5
	return strconv.FormatInt(lo+rand.Int64N(hi-lo), 36)
}

func applyUserUpdate(u *models.AdminUser, upd models.UserUpdate, now int64) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	if upd.DeleteAt != nil {
		d := *upd.DeleteAt
		u.DeleteAt = &d
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
		u.PasswordChangedAt = &now
	}
	u.UpdatedAt = now
}

func cloneBusiness(b *models.Business) *models.Business {
	out := *b
	out.Type = append([]string(nil), b.Type...)
	out.Questions = make([]models.Question, len(b.Questions))
	for i, q := range b.Questions {
		out.Questions[i] = models.Question{Question: q.Question, Answers: append([]string(nil), q.Answers...)}
	}
	return &out
}

func cloneUser(u *models.AdminUser) *models.AdminUser {
	out := *u
	if u.PasswordChangedAt != nil {
		v := *u.PasswordChangedAt
		out.PasswordChangedAt = &v
	}
	if u.DeleteAt != nil {
		v := *u.DeleteAt
		out.DeleteAt = &v
	}
	return &out
}
