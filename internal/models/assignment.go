package models

import "time"

// Assignment represents homework given to a class subdivision by a teacher.
// Creating one fans a notification out to the guardians of every student in
// the targeted (class, subdivision).
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	FileURL     string    `gorm:"size:512" json:"file_url"`
	ClassID     uint      `gorm:"index;not null" json:"class_id"`
	Class       *Class    `json:"class,omitempty"`
	Subdivision string    `gorm:"size:32" json:"subdivision"`
	SubjectID   *uint     `json:"subject_id"`
	Subject     *Subject  `json:"subject,omitempty"`
	TeacherID   uint      `gorm:"index;not null" json:"teacher_id"`
	Teacher     *User     `json:"teacher,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
