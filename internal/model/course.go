package model

import "time"

// Course carries the credit load used to scale deadline weights.
type Course struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_user_course_code"`
	Code      string `gorm:"uniqueIndex:idx_user_course_code"`
	Name      string
	Credits   int `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
