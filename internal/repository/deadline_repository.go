package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deadline-tracker/internal/model"
)

// DeadlineRepository handles CRUD for deadlines.
type DeadlineRepository struct {
	db *gorm.DB
}

func NewDeadlineRepository(db *gorm.DB) *DeadlineRepository {
	return &DeadlineRepository{db: db}
}

func (r *DeadlineRepository) Create(ctx context.Context, d *model.Deadline) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create deadline: %w", err)
	}
	return nil
}

// ListByUser returns every deadline of the user, completed and past included.
func (r *DeadlineRepository) ListByUser(ctx context.Context, userID uint) ([]model.Deadline, error) {
	var deadlines []model.Deadline
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("due_at ASC, id ASC").
		Find(&deadlines).Error; err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	return deadlines, nil
}

func (r *DeadlineRepository) ListByIDs(ctx context.Context, userID uint, ids []uint) ([]model.Deadline, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var deadlines []model.Deadline
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).
		Order("due_at ASC, id ASC").
		Find(&deadlines).Error; err != nil {
		return nil, fmt.Errorf("list deadlines by id: %w", err)
	}
	return deadlines, nil
}

func (r *DeadlineRepository) FindByID(ctx context.Context, userID, id uint) (*model.Deadline, error) {
	var d model.Deadline
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeadlineRepository) Save(ctx context.Context, d *model.Deadline) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("save deadline: %w", err)
	}
	return nil
}

func (r *DeadlineRepository) SetCompleted(ctx context.Context, d *model.Deadline, completed bool, at time.Time) error {
	d.IsCompleted = completed
	if completed {
		d.CompletedAt = &at
	} else {
		d.CompletedAt = nil
	}
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("set deadline completion: %w", err)
	}
	return nil
}

// Delete removes a deadline and reports whether a row existed.
func (r *DeadlineRepository) Delete(ctx context.Context, userID, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Deadline{})
	if res.Error != nil {
		return false, fmt.Errorf("delete deadline: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
