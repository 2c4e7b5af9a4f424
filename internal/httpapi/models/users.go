package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored in users.role. The superuser flag is orthogonal to the
// role and is never implied by it.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"` // empty for code-only accounts
	Role         string     `gorm:"size:16;default:'user';not null" json:"role"`
	IsSuperuser  bool       `gorm:"default:false;not null" json:"is_superuser"`
	FirstName    string     `gorm:"size:150" json:"first_name"`
	LastName     string     `gorm:"size:150" json:"last_name"`
	Bio          string     `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsUser reports whether the account carries the plain user role.
func (u *User) IsUser() bool { return u.Role == RoleUser }

// IsModerator reports whether the account carries the moderator role.
// Admins are NOT moderators; policies that want both must ask for both.
func (u *User) IsModerator() bool { return u.Role == RoleModerator }

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
