package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deadline-tracker/internal/model"
)

// WorkloadRepository persists derived workload weeks.
type WorkloadRepository struct {
	db *gorm.DB
}

func NewWorkloadRepository(db *gorm.DB) *WorkloadRepository {
	return &WorkloadRepository{db: db}
}

func (r *WorkloadRepository) ListByUser(ctx context.Context, userID uint) ([]model.WorkloadWeek, error) {
	var weeks []model.WorkloadWeek
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("week_key ASC").
		Find(&weeks).Error; err != nil {
		return nil, fmt.Errorf("list workload weeks: %w", err)
	}
	return weeks, nil
}

// Replace makes the stored weeks of userID exactly equal to weeks: rows are
// upserted wholesale by week key and every other row of the user is deleted.
// It runs in one transaction, so a failure leaves the previous set intact.
func (r *WorkloadRepository) Replace(ctx context.Context, userID uint, weeks []model.WorkloadWeek) (pruned int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keys := make([]string, 0, len(weeks))
		for i := range weeks {
			w := weeks[i]
			w.ID = 0
			w.UserID = userID
			keys = append(keys, w.WeekKey)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "week_key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"week_start", "week_end", "load_score", "risk_level", "deadline_count", "deadline_ids",
				}),
			}).Create(&w).Error; err != nil {
				return fmt.Errorf("upsert week %s: %w", w.WeekKey, err)
			}
		}

		del := tx.Where("user_id = ?", userID)
		if len(keys) > 0 {
			del = del.Where("week_key NOT IN ?", keys)
		}
		res := del.Delete(&model.WorkloadWeek{})
		if res.Error != nil {
			return fmt.Errorf("prune weeks: %w", res.Error)
		}
		pruned = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace workload weeks: %w", err)
	}
	return pruned, nil
}
