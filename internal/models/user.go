package models

import "time"

// Role identifies the access level of a user account.
type Role string

// Known account roles. Role is immutable after creation except through
// the privileged user-management path.
const (
	RoleParent    Role = "parent"
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
)

// Valid reports whether the role is one of the known account roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleTeacher, RoleAdmin, RoleDeveloper:
		return true
	}
	return false
}

// User represents a platform account: a parent, teacher, administrator or developer.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Children     []Student `gorm:"many2many:user_children" json:"children,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the display name used in notifications and reports.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
