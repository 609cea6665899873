package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
)

// DeadlineStore is the persistence used by DeadlineService.
type DeadlineStore interface {
	DeadlineReader
	Create(ctx context.Context, d *model.Deadline) error
	FindByID(ctx context.Context, userID, id uint) (*model.Deadline, error)
	Save(ctx context.Context, d *model.Deadline) error
	SetCompleted(ctx context.Context, d *model.Deadline, completed bool, at time.Time) error
	Delete(ctx context.Context, userID, id uint) (bool, error)
}

// DeadlineInput represents data required to create a deadline.
type DeadlineInput struct {
	Title          string
	Course         string
	Type           string
	DueAt          *time.Time
	EstimatedHours *float64
	Notes          string
}

// DeadlinePatch holds the fields of an edit; nil fields are left unchanged.
type DeadlinePatch struct {
	Title          *string
	Course         *string
	Type           *string
	DueAt          *time.Time
	EstimatedHours *float64
	Notes          *string
}

// DeadlineService wraps deadline mutations. Each mutation resyncs the
// owner's workload before returning.
type DeadlineService struct {
	repo DeadlineStore
	sync Syncer
	now  Clock
	log  *logger.Logger
}

func NewDeadlineService(repo DeadlineStore, sync Syncer, now Clock, log *logger.Logger) *DeadlineService {
	return &DeadlineService{repo: repo, sync: sync, now: now, log: log.With("service", "DeadlineService")}
}

func (s *DeadlineService) Create(ctx context.Context, userID uint, in DeadlineInput) (*model.Deadline, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.DueAt == nil || in.DueAt.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}
	if in.EstimatedHours == nil {
		return nil, fmt.Errorf("%w: estimated hours are required", ErrInvalidInput)
	}
	if err := validateHours(*in.EstimatedHours); err != nil {
		return nil, err
	}

	d := model.Deadline{
		UserID:         userID,
		Title:          title,
		Course:         strings.TrimSpace(in.Course),
		Type:           strings.TrimSpace(in.Type),
		DueAt:          *in.DueAt,
		EstimatedHours: *in.EstimatedHours,
		Notes:          strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, &d); err != nil {
		return nil, err
	}
	s.log.Info("deadline created", "user_id", userID, "deadline_id", d.ID)
	return &d, s.resync(ctx, userID)
}

func (s *DeadlineService) Update(ctx context.Context, userID, id uint, patch DeadlinePatch) (*model.Deadline, error) {
	d, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		d.Title = title
	}
	if patch.Course != nil {
		d.Course = strings.TrimSpace(*patch.Course)
	}
	if patch.Type != nil {
		d.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.DueAt != nil {
		if patch.DueAt.IsZero() {
			return nil, fmt.Errorf("%w: due date is required", ErrInvalidInput)
		}
		d.DueAt = *patch.DueAt
	}
	if patch.EstimatedHours != nil {
		if err := validateHours(*patch.EstimatedHours); err != nil {
			return nil, err
		}
		d.EstimatedHours = *patch.EstimatedHours
	}
	if patch.Notes != nil {
		d.Notes = strings.TrimSpace(*patch.Notes)
	}

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info("deadline updated", "user_id", userID, "deadline_id", d.ID)
	return d, s.resync(ctx, userID)
}

// SetCompleted sets the completion flag. Setting it to its current value is
// a no-op apart from the sync.
func (s *DeadlineService) SetCompleted(ctx context.Context, userID, id uint, completed bool) (*model.Deadline, error) {
	d, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d.IsCompleted != completed {
		if err := s.repo.SetCompleted(ctx, d, completed, s.now()); err != nil {
			return nil, err
		}
		s.log.Info("deadline completion toggled", "user_id", userID, "deadline_id", d.ID, "completed", completed)
	}
	return d, s.resync(ctx, userID)
}

func (s *DeadlineService) Delete(ctx context.Context, userID, id uint) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.log.Info("deadline deleted", "user_id", userID, "deadline_id", id)
	return s.resync(ctx, userID)
}

func (s *DeadlineService) Get(ctx context.Context, userID, id uint) (*model.Deadline, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// ListOpen returns the user's incomplete deadlines, overdue ones included.
func (s *DeadlineService) ListOpen(ctx context.Context, userID uint) ([]model.Deadline, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	open := make([]model.Deadline, 0, len(all))
	for _, d := range all {
		if !d.IsCompleted {
			open = append(open, d)
		}
	}
	return open, nil
}

func (s *DeadlineService) resync(ctx context.Context, userID uint) error {
	if _, err := s.sync.SyncUser(ctx, userID); err != nil {
		s.log.Error("workload sync after mutation failed", "user_id", userID, "error", err)
		return fmt.Errorf("%w: %w", ErrWorkloadStale, err)
	}
	return nil
}

func validateHours(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return fmt.Errorf("%w: estimated hours must be a non-negative number", ErrInvalidInput)
	}
	return nil
}
