package models

import "time"

// ClassKind distinguishes the primary and secondary school tracks.
// Promotion never crosses tracks: the successor of a class is the class
// one level above it within the same kind.
type ClassKind string

const (
	ClassPrimary   ClassKind = "primary"
	ClassSecondary ClassKind = "secondary"
)

// Valid reports whether the kind is a known school track.
func (k ClassKind) Valid() bool {
	return k == ClassPrimary || k == ClassSecondary
}

// Class represents a school class at a given level. A class exclusively
// owns its subdivisions; deleting the class deletes them.
type Class struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Name               string        `gorm:"size:100;not null" json:"name"`
	Level              int           `gorm:"not null;index" json:"level"`
	Kind               ClassKind     `gorm:"size:16;not null;index" json:"kind"`
	PromotionThreshold float64       `json:"promotion_threshold"`
	Subdivisions       []Subdivision `gorm:"constraint:OnDelete:CASCADE" json:"subdivisions"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Subdivision is a named section inside a class, optionally led by a teacher.
type Subdivision struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ClassID       uint   `gorm:"index;not null" json:"class_id"`
	Name          string `gorm:"size:32;not null" json:"name"`
	Position      int    `gorm:"not null" json:"position"`
	LeadTeacherID *uint  `json:"lead_teacher_id"`
	LeadTeacher   *User  `json:"lead_teacher,omitempty"`
}

// SubdivisionNames returns the subdivision names in declared order.
func (c Class) SubdivisionNames() []string {
	names := make([]string, 0, len(c.Subdivisions))
	for _, sub := range c.Subdivisions {
		names = append(names, sub.Name)
	}
	return names
}

// HasSubdivision reports whether the class declares a subdivision with the given name.
func (c Class) HasSubdivision(name string) bool {
	for _, sub := range c.Subdivisions {
		if sub.Name == name {
			return true
		}
	}
	return false
}
