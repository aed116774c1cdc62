package models

type AdminUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	PasswordHash      string `json:"-"`
	Active            bool   `json:"active"`
	CreatedAt         int64  `json:"createdAt"`
	UpdatedAt         int64  `json:"updatedAt"`
	PasswordChangedAt *int64 `json:"passwordChangedAt,omitempty"`
	DeleteAt          *int64 `json:"deleteAt,omitempty"`
}

// SafeUser is an AdminUser without any password material.
type SafeUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Active            bool   `json:"active"`
	CreatedAt         int64  `json:"createdAt"`
	UpdatedAt         int64  `json:"updatedAt"`
	PasswordChangedAt *int64 `json:"passwordChangedAt,omitempty"`
	DeleteAt          *int64 `json:"deleteAt,omitempty"`
}

func (u *AdminUser) Safe() *SafeUser {
	return &SafeUser{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Active:            u.Active,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		PasswordChangedAt: u.PasswordChangedAt,
		DeleteAt:          u.DeleteAt,
	}
}

// UserUpdate is a partial patch. PasswordHash is filled by the credential
// service, never bound from a request.
type UserUpdate struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Active       *bool   `json:"active"`
	Password     *string `json:"password"`
	DeleteAt     *int64  `json:"deleteAt"`
	PasswordHash *string `json:"-"`
}

func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Active == nil && u.Password == nil && u.DeleteAt == nil && u.PasswordHash == nil
}
