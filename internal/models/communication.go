package models

import "time"

// Message is a direct message between two user accounts. Creating one
// triggers exactly one notification to the receiver.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	Sender     *User     `json:"sender,omitempty"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver_id"`
	Receiver   *User     `json:"receiver,omitempty"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NotificationKind identifies the domain event a notification records.
type NotificationKind string

const (
	NotificationMessage    NotificationKind = "message"
	NotificationAssignment NotificationKind = "assignment"
)

// Valid reports whether the kind is a known notification kind.
func (k NotificationKind) Valid() bool {
	return k == NotificationMessage || k == NotificationAssignment
}

// Notification records that a domain event concerns a user. The system only
// tracks notification state; delivery is handled externally.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      uint             `gorm:"index;not null" json:"user_id"`
	Kind        NotificationKind `gorm:"size:32;not null" json:"kind"`
	ReferenceID uint             `gorm:"not null" json:"reference_id"`
	Read        bool             `gorm:"not null;default:false" json:"read"`
	SentAt      time.Time        `gorm:"not null" json:"sent_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
