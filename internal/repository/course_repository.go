package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// CourseRepository stores per-user course credit loads.
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Upsert creates the course or updates its name and credits.
func (r *CourseRepository) Upsert(ctx context.Context, userID uint, code, name string, credits int) (*model.Course, error) {
	code = strings.TrimSpace(code)
	var course model.Course
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND code = ?", userID, code).First(&course).Error
	switch {
	case err == nil:
		course.Credits = credits
		if strings.TrimSpace(name) != "" {
			course.Name = strings.TrimSpace(name)
		}
		if err := db.Save(&course).Error; err != nil {
			return nil, fmt.Errorf("update course: %w", err)
		}
		return &course, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		course = model.Course{UserID: userID, Code: code, Name: strings.TrimSpace(name), Credits: credits}
		if err := db.Create(&course).Error; err != nil {
			return nil, fmt.Errorf("create course: %w", err)
		}
		return &course, nil
	default:
		return nil, fmt.Errorf("find course: %w", err)
	}
}

func (r *CourseRepository) ListByUser(ctx context.Context, userID uint) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("code ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
