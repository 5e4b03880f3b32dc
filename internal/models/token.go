package models

import "time"

// AuthToken is the server-side record behind a bearer credential. The
// credential presented by clients is opaque to the domain services; a token
// is valid only while its record exists, so deleting the record revokes it.
type AuthToken struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
