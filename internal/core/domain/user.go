package domain

import "time"

// Role is the privilege level stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleNone marks a role string that maps to no known privilege level.
	// Distinct from an unauthenticated caller.
	RoleNone Role = ""
)

// ParseRole maps a stored role string to a known Role. Unknown or empty
// values resolve to RoleNone and never grant privileged access.
func ParseRole(s string) Role {
	switch s {
	case string(RoleUser):
		return RoleUser
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleNone
	}
}

// User is the durable identity record. The password field holds the salted
// digest, never the plaintext, and is excluded from JSON output.
type User struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDelete  bool      `json:"-"`
}

// LoginUserView is the sanitized projection returned to the authenticating
// client. It carries no credential material.
type LoginUserView struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Name      string    `json:"name"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserView is the sanitized projection used for listings and lookups by
// other users.
type UserView struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Name      string    `json:"name"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLoginUserView projects a user onto the login view. Returns nil for nil.
func NewLoginUserView(u *User) *LoginUserView {
	if u == nil {
		return nil
	}
	return &LoginUserView{
		ID:        u.ID,
		Account:   u.Account,
		Name:      u.Name,
		Profile:   u.Profile,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserView projects a user onto the listing view. Returns nil for nil.
func NewUserView(u *User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:        u.ID,
		Account:   u.Account,
		Name:      u.Name,
		Profile:   u.Profile,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserViewList projects a slice of users, skipping nil entries.
func NewUserViewList(users []*User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		if v := NewUserView(u); v != nil {
			views = append(views, v)
		}
	}
	return views
}
