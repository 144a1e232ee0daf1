package entity

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Password      string     `json:"-"`
	Role          Role       `json:"role"`
	VerifiedBadge bool       `json:"verified_badge"`
	VIPStatus     bool       `json:"vip_status"`
	VIPExpiry     *time.Time `json:"vip_expiry,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// VIPActive reports whether the VIP flag is still within its expiry. It is
// informational only and never consulted for authorization.
func (u *User) VIPActive(now time.Time) bool {
	if !u.VIPStatus {
		return false
	}
	return u.VIPExpiry == nil || now.Before(*u.VIPExpiry)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify implements the owner-or-admin rule.
func (a Actor) CanModify(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
