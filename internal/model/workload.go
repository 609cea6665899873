package model

import "time"

// WorkloadWeek is the derived per-week summary of a user's upcoming deadlines.
// Rows are written only by the workload synchronizer; WeekKey is WeekStart
// formatted as 2006-01-02 in the reference calendar.
type WorkloadWeek struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_week"`
	WeekKey       string    `gorm:"uniqueIndex:idx_user_week;size:10"`
	WeekStart     time.Time `gorm:"not null"`
	WeekEnd       time.Time `gorm:"not null"`
	LoadScore     float64
	RiskLevel     string `gorm:"size:16"`
	DeadlineCount int
	DeadlineIDs   []uint `gorm:"column:deadline_ids;serializer:json"`
}
