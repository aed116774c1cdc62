package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"uprate/backend/models"
	"uprate/backend/store"
	"uprate/backend/utils"
)

type Credentials struct {
	users store.UserStore

	dummyOnce sync.Once
	dummy     string
}

func NewCredentials(users store.UserStore) *Credentials {
	return &Credentials{users: users}
}

// Register hashes the password and inserts the user. A taken email returns
// store.ErrConflict.
func (c *Credentials) Register(ctx context.Context, name, email, password string, active bool) (string, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", &ValidationError{Message: "Name, email and password are required."}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", err
	}
	u, err := c.users.CreateUser(ctx, &models.AdminUser{Name: name, Email: email, PasswordHash: hash, Active: active})
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Authenticate returns nil, nil for an unknown email, an inactive account or
// a wrong password; callers cannot tell the three apart. A non-nil error
// only means the store itself failed.
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (*models.SafeUser, error) {
	u, err := c.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		// burn a comparison so response time does not reveal the miss
		utils.CheckPasswordHash(password, c.dummyHash())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	match := utils.CheckPasswordHash(password, u.PasswordHash)
	if !u.Active || !match {
		return nil, nil
	}
	return u.Safe(), nil
}

func (c *Credentials) Get(ctx context.Context, id string) (*models.SafeUser, error) {
	u, err := c.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Safe(), nil
}

func (c *Credentials) List(ctx context.Context) ([]models.SafeUser, error) {
	users, err := c.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SafeUser, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Safe())
	}
	return out, nil
}

// Update patches a user. A plaintext Password is hashed here and never
// reaches the store.
func (c *Credentials) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.SafeUser, error) {
	if upd.Empty() {
		return nil, &ValidationError{Message: "Nothing to update."}
	}
	if upd.Name != nil {
		n := strings.TrimSpace(*upd.Name)
		if n == "" {
			return nil, &ValidationError{Message: "Name cannot be empty."}
		}
		upd.Name = &n
	}
	if upd.Email != nil {
		e := strings.TrimSpace(*upd.Email)
		if e == "" {
			return nil, &ValidationError{Message: "Email cannot be empty."}
		}
		upd.Email = &e
	}
	if upd.Password != nil {
		hash, err := hashNewPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
		upd.Password = nil
	}
	u, err := c.users.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return u.Safe(), nil
}

// ChangePassword replaces the password hash; the store stamps
// passwordChangedAt.
func (c *Credentials) ChangePassword(ctx context.Context, id, password string) (*models.SafeUser, error) {
	hash, err := hashNewPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := c.users.UpdateUser(ctx, id, models.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return nil, err
	}
	return u.Safe(), nil
}

// SetActive enables or disables console access. A disabled user fails
// Authenticate and is turned away by RequireAdmin on the next request.
func (c *Credentials) SetActive(ctx context.Context, id string, active bool) (*models.SafeUser, error) {
	u, err := c.users.UpdateUser(ctx, id, models.UserUpdate{Active: &active})
	if err != nil {
		return nil, err
	}
	return u.Safe(), nil
}

func hashNewPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", &ValidationError{Message: "Password cannot be empty."}
	}
	return utils.HashPassword(password)
}

func (c *Credentials) Delete(ctx context.Context, id string) error {
	return c.users.DeleteUser(ctx, id)
}

func (c *Credentials) dummyHash() string {
	c.dummyOnce.Do(func() {
		c.dummy, _ = utils.HashPassword("uprate-dummy-password")
	})
	return c.dummy
}
