package models

import "time"

// Subject represents a taught discipline, optionally scoped to one class.
// The coefficient is informational: grade aggregation and promotion use
// unweighted means (see the grade service).
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Coefficient int       `gorm:"not null;default:1" json:"coefficient"`
	TeacherID   *uint     `json:"teacher_id"`
	Teacher     *User     `json:"teacher,omitempty"`
	ClassID     *uint     `gorm:"index" json:"class_id"`
	Class       *Class    `json:"class,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
