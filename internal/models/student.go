package models

import "time"

// SubdivisionMethod records how a student was placed into a subdivision.
type SubdivisionMethod string

const (
	SubdivisionAuto   SubdivisionMethod = "auto"
	SubdivisionManual SubdivisionMethod = "manual"
)

// Student represents an enrolled pupil. A student belongs to exactly one
// class at a time; the subdivision is a named section within that class.
type Student struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	FirstName         string            `gorm:"size:100;not null" json:"first_name"`
	LastName          string            `gorm:"size:100;not null" json:"last_name"`
	Matricule         string            `gorm:"size:32;uniqueIndex;not null" json:"matricule"`
	BirthDate         *time.Time        `json:"birth_date"`
	ClassID           *uint             `gorm:"index" json:"class_id"`
	Class             *Class            `json:"class,omitempty"`
	Subdivision       string            `gorm:"size:32" json:"subdivision"`
	SubdivisionMethod SubdivisionMethod `gorm:"size:16" json:"subdivision_method"`
	Guardians         []User            `gorm:"many2many:user_children" json:"guardians,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// FullName returns the display name used in promotion reports.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
