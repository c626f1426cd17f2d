package models

import "time"

// Submission is a student's attempt at an assignment. At most one exists per
// (student, assignment) pair; the score stays nil until grading completes.
type Submission struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AssignmentID    uint      `gorm:"not null;uniqueIndex:idx_submission_student_assignment" json:"assignment_id"`
	StudentID       uint      `gorm:"not null;uniqueIndex:idx_submission_student_assignment" json:"student_id"`
	SubmissionText  string    `gorm:"type:text;not null" json:"submission_text"`
	Score           *int      `json:"score"`
	TeacherFeedback string    `gorm:"type:text" json:"teacher_feedback"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Assignment Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student    Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsGraded reports whether a score has been recorded.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}
