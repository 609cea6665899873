package service

import (
	"context"
	"fmt"
	"strings"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
)

// CourseStore is the persistence used by CourseService.
type CourseStore interface {
	CourseReader
	Upsert(ctx context.Context, userID uint, code, name string, credits int) (*model.Course, error)
}

// CourseService manages the credit loads that scale deadline weights.
type CourseService struct {
	repo CourseStore
	sync Syncer
	log  *logger.Logger
}

func NewCourseService(repo CourseStore, sync Syncer, log *logger.Logger) *CourseService {
	return &CourseService{repo: repo, sync: sync, log: log.With("service", "CourseService")}
}

// Set records a course's credits. Weights depend on credits, so the user's
// workload is resynced.
func (s *CourseService) Set(ctx context.Context, userID uint, code, name string, credits int) (*model.Course, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: course code is required", ErrInvalidInput)
	}
	if credits < 1 {
		return nil, fmt.Errorf("%w: credits must be at least 1", ErrInvalidInput)
	}
	course, err := s.repo.Upsert(ctx, userID, code, name, credits)
	if err != nil {
		return nil, err
	}
	s.log.Info("course credits set", "user_id", userID, "course", course.Code, "credits", credits)
	if _, err := s.sync.SyncUser(ctx, userID); err != nil {
		return course, fmt.Errorf("%w: %w", ErrWorkloadStale, err)
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, userID uint) ([]model.Course, error) {
	return s.repo.ListByUser(ctx, userID)
}
