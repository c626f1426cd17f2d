package dto

import "time"

// GoldCoinsResponse reports a student's current reward balance.
type GoldCoinsResponse struct {
	StudentID uint `json:"student_id"`
	GoldCoins int  `json:"gold_coins"`
}

// OverviewSummary aggregates a student's progress figures.
type OverviewSummary struct {
	TotalAssignments int `json:"total_assignments"`
	Submitted        int `json:"submitted"`
	Graded           int `json:"graded"`
	Pending          int `json:"pending"`
	Overdue          int `json:"overdue"`
	GoldCoins        int `json:"gold_coins"`
}

// AssignmentProgress tracks one assignment's state for a student.
type AssignmentProgress struct {
	AssignmentID uint      `json:"assignment_id"`
	Title        string    `json:"title"`
	MaxScore     int       `json:"max_score"`
	Deadline     time.Time `json:"deadline"`
	Status       string    `json:"status"`
	SubmissionID *uint     `json:"submission_id"`
	Score        *int      `json:"score"`
	Feedback     string    `json:"feedback"`
	Overdue      bool      `json:"overdue"`
}

// StudentOverviewResponse is the cached student dashboard payload.
type StudentOverviewResponse struct {
	Summary     OverviewSummary      `json:"summary"`
	Assignments []AssignmentProgress `json:"assignments"`
}
