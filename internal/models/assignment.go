package models

import "time"

// Assignment represents a grading task authored by a teacher.
type Assignment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Title              string    `gorm:"size:255;not null" json:"title"`
	Instructions       string    `gorm:"type:text;not null" json:"instructions"`
	MaxScore           int       `gorm:"not null" json:"max_score"`
	CorrectionTemplate *string   `gorm:"type:text" json:"correction_template"`
	Deadline           time.Time `gorm:"not null" json:"deadline"`
	EnableAutoGrading  bool      `gorm:"not null;default:false" json:"enable_auto_grading"`
	TeacherID          uint      `gorm:"not null" json:"teacher_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Teacher     Teacher      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Submissions []Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsPastDeadline reports whether the deadline has passed at the reference time.
func (a Assignment) IsPastDeadline(reference time.Time) bool {
	return reference.After(a.Deadline)
}

// HasTemplate reports whether a non-empty correction template is attached.
func (a Assignment) HasTemplate() bool {
	return a.CorrectionTemplate != nil && *a.CorrectionTemplate != ""
}
