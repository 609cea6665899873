package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/workload"
)

// DeadlineReader loads a user's full deadline set.
type DeadlineReader interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Deadline, error)
}

// CourseReader loads a user's courses for credit lookups.
type CourseReader interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Course, error)
}

// WeekStore persists derived workload weeks.
type WeekStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.WorkloadWeek, error)
	Replace(ctx context.Context, userID uint, weeks []model.WorkloadWeek) (int64, error)
}

// Syncer recomputes a user's derived weeks.
type Syncer interface {
	SyncUser(ctx context.Context, userID uint) ([]model.WorkloadWeek, error)
}

// SyncService recomputes a user's workload weeks from source deadlines and
// replaces the stored set wholesale. Passes for one user never overlap.
type SyncService struct {
	deadlines DeadlineReader
	courses   CourseReader
	weeks     WeekStore
	policy    workload.Policy
	now       Clock
	timeout   time.Duration
	locks     *userLocks
	log       *logger.Logger
}

func NewSyncService(deadlines DeadlineReader, courses CourseReader, weeks WeekStore, policy workload.Policy, now Clock, timeout time.Duration, log *logger.Logger) *SyncService {
	return &SyncService{
		deadlines: deadlines,
		courses:   courses,
		weeks:     weeks,
		policy:    policy,
		now:       now,
		timeout:   timeout,
		locks:     newUserLocks(),
		log:       log.With("service", "SyncService"),
	}
}

// SyncUser returns the stored weeks after the pass. On any failure the
// previously stored weeks are left as they were.
func (s *SyncService) SyncUser(ctx context.Context, userID uint) ([]model.WorkloadWeek, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	unlock, err := s.locks.lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wait for sync slot: %w", err)
	}
	defer unlock()

	syncID := uuid.NewString()
	log := s.log.With("user_id", userID, "sync_id", syncID)
	started := time.Now()

	deadlines, err := s.deadlines.ListByUser(ctx, userID)
	if err != nil {
		log.Warn("sync aborted: load deadlines", "error", err)
		return nil, fmt.Errorf("load deadlines: %w", err)
	}
	credits, err := loadCredits(ctx, s.courses, userID)
	if err != nil {
		log.Warn("sync aborted: load courses", "error", err)
		return nil, err
	}

	now := s.now()
	weeks := workload.Sorted(workload.Aggregate(userID, deadlines, now, credits, s.policy))

	pruned, err := s.weeks.Replace(ctx, userID, weeks)
	if err != nil {
		log.Warn("sync aborted: store weeks", "error", err)
		return nil, err
	}

	stored, err := s.weeks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload weeks: %w", err)
	}

	log.Debug("workload synced",
		"deadlines", len(deadlines),
		"weeks", len(weeks),
		"pruned", pruned,
		"elapsed", time.Since(started),
	)
	return stored, nil
}

// loadCredits builds a lookup keyed by both course code and course name.
func loadCredits(ctx context.Context, courses CourseReader, userID uint) (workload.Credits, error) {
	credits := workload.Credits{}
	if courses == nil {
		return credits, nil
	}
	list, err := courses.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	for _, c := range list {
		credits.Add(c.Name, c.Credits)
	}
	// Codes win over names on collision.
	for _, c := range list {
		credits.Add(c.Code, c.Credits)
	}
	return credits, nil
}
