package model

import "time"

// Deadline is a single assignment, exam or other dated piece of coursework.
type Deadline struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index"`
	Title          string    `gorm:"not null"`
	Course         string    `gorm:"index"`
	Type           string    // free text: Assignment, Midterm, Final...
	DueAt          time.Time `gorm:"not null;index"`
	EstimatedHours float64   `gorm:"not null;default:0"`
	IsCompleted    bool      `gorm:"default:false"`
	CompletedAt    *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
