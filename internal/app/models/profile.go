package models

import (
	"time"
)

// Profile defines the member profile model based on the 'profiles' table.
// One profile exists per authenticated identity; rows are created lazily
// on first login with the default role 'visiteur'.
type Profile struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	Email         string     `json:"email" db:"email" example:"sophie.martin@efrei.net"`
	Password      string     `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FullName      string     `json:"fullName" db:"full_name" example:"Sophie Martin"`
	AvatarURL     *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	Role          Role       `json:"role" db:"role" example:"membre"`
	IsSystemAdmin bool       `json:"isSystemAdmin" db:"is_system_admin"` // Immutable through the role-edit path
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
