package service

import (
	"context"
	"fmt"
	"time"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/studyplan"
	"deadline-tracker/internal/workload"
)

// DefaultHorizonWeeks is used when a caller passes a non-positive horizon.
const DefaultHorizonWeeks = 4

// MemberReader loads deadlines by id for alert projections.
type MemberReader interface {
	ListByIDs(ctx context.Context, userID uint, ids []uint) ([]model.Deadline, error)
}

// ScoredDeadline is a deadline with its classification.
type ScoredDeadline struct {
	model.Deadline
	workload.Classification
}

// Alert is an overloaded week with the deadlines causing it.
type Alert struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	RiskLevel     workload.RiskLevel
	LoadScore     float64
	DeadlineCount int
	Deadlines     []ScoredDeadline
	Message       string
}

// Summary is the dashboard view of the coming weeks.
type Summary struct {
	Now             time.Time
	HorizonWeeks    int
	CurrentWeek     *model.WorkloadWeek
	PeakWeek        *model.WorkloadWeek
	Weeks           []model.WorkloadWeek
	OverloadedCount int
}

// InsightService answers read queries over the synchronized weeks. A user
// with no stored weeks is synced first so the first read is never empty by
// accident.
type InsightService struct {
	weeks   WeekStore
	members MemberReader
	courses CourseReader
	sync    Syncer
	policy  workload.Policy
	now     Clock
	log     *logger.Logger
}

func NewInsightService(weeks WeekStore, members MemberReader, courses CourseReader, sync Syncer, policy workload.Policy, now Clock, log *logger.Logger) *InsightService {
	return &InsightService{
		weeks:   weeks,
		members: members,
		courses: courses,
		sync:    sync,
		policy:  policy,
		now:     now,
		log:     log.With("service", "InsightService"),
	}
}

// Refresh recomputes the user's stored weeks against the current time.
func (s *InsightService) Refresh(ctx context.Context, userID uint) error {
	if _, err := s.sync.SyncUser(ctx, userID); err != nil {
		return fmt.Errorf("refresh workload: %w", err)
	}
	return nil
}

// AllWeeks returns the stored weeks starting at or after the current week.
func (s *InsightService) AllWeeks(ctx context.Context, userID uint) ([]model.WorkloadWeek, error) {
	weeks, err := s.weeks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		s.log.Debug("no derived weeks, syncing", "user_id", userID)
		if weeks, err = s.sync.SyncUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	current := workload.WeekKey(s.now())
	upcoming := make([]model.WorkloadWeek, 0, len(weeks))
	for _, w := range weeks {
		if w.WeekKey >= current {
			upcoming = append(upcoming, w)
		}
	}
	workload.SortWeeks(upcoming)
	return upcoming, nil
}

// CurrentWeek returns this week's record, or nil when nothing is due.
func (s *InsightService) CurrentWeek(ctx context.Context, userID uint) (*model.WorkloadWeek, error) {
	weeks, err := s.AllWeeks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return currentOf(weeks, s.now()), nil
}

// PeakWeek returns the upcoming week with the highest load score. Ties go
// to the earliest week.
func (s *InsightService) PeakWeek(ctx context.Context, userID uint) (*model.WorkloadWeek, error) {
	weeks, err := s.AllWeeks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return peakOf(weeks), nil
}

func (s *InsightService) Summary(ctx context.Context, userID uint, horizonWeeks int) (*Summary, error) {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	weeks, err := s.AllWeeks(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	within := horizon(weeks, now, horizonWeeks)
	sum := &Summary{
		Now:          now,
		HorizonWeeks: horizonWeeks,
		CurrentWeek:  currentOf(weeks, now),
		PeakWeek:     peakOf(weeks),
		Weeks:        within,
	}
	for _, w := range within {
		if workload.RiskLevel(w.RiskLevel).Overloaded() {
			sum.OverloadedCount++
		}
	}
	return sum, nil
}

// Alerts projects every upcoming high or critical week.
func (s *InsightService) Alerts(ctx context.Context, userID uint) ([]Alert, error) {
	weeks, err := s.AllWeeks(ctx, userID)
	if err != nil {
		return nil, err
	}

	var overloaded []model.WorkloadWeek
	var ids []uint
	for _, w := range weeks {
		if workload.RiskLevel(w.RiskLevel).Overloaded() {
			overloaded = append(overloaded, w)
			ids = append(ids, w.DeadlineIDs...)
		}
	}
	if len(overloaded) == 0 {
		return nil, nil
	}

	scored, err := s.scoreMembers(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(overloaded))
	for _, w := range overloaded {
		a := Alert{
			WeekStart:     w.WeekStart,
			WeekEnd:       w.WeekEnd,
			RiskLevel:     workload.RiskLevel(w.RiskLevel),
			LoadScore:     w.LoadScore,
			DeadlineCount: w.DeadlineCount,
			Message:       AlertMessage(w),
		}
		for _, id := range w.DeadlineIDs {
			if d, ok := scored[id]; ok {
				a.Deadlines = append(a.Deadlines, d)
			}
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// PlanContext lists the deadlines of the next horizonWeeks weeks with the
// engine's weights, for the study plan prompt.
func (s *InsightService) PlanContext(ctx context.Context, userID uint, horizonWeeks int) ([]studyplan.Item, error) {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	weeks, err := s.AllWeeks(ctx, userID)
	if err != nil {
		return nil, err
	}
	within := horizon(weeks, s.now(), horizonWeeks)

	var ids []uint
	for _, w := range within {
		ids = append(ids, w.DeadlineIDs...)
	}
	scored, err := s.scoreMembers(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	var items []studyplan.Item
	for _, w := range within {
		for _, id := range w.DeadlineIDs {
			d, ok := scored[id]
			if !ok {
				continue
			}
			items = append(items, studyplan.Item{
				DeadlineID:     d.ID,
				Title:          d.Title,
				Course:         d.Course,
				Type:           d.Type,
				DueAt:          d.DueAt,
				EstimatedHours: d.EstimatedHours,
				Weight:         d.Weight,
				Impact:         string(d.Impact),
				WeekStart:      w.WeekStart,
				WeekRisk:       w.RiskLevel,
			})
		}
	}
	studyplan.SortByPriority(items)
	return items, nil
}

func (s *InsightService) scoreMembers(ctx context.Context, userID uint, ids []uint) (map[uint]ScoredDeadline, error) {
	deadlines, err := s.members.ListByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	credits, err := loadCredits(ctx, s.courses, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]ScoredDeadline, len(deadlines))
	for _, d := range deadlines {
		out[d.ID] = ScoredDeadline{Deadline: d, Classification: workload.Classify(d, credits, s.policy)}
	}
	return out, nil
}

// AlertMessage is the one-line description of an overloaded week.
func AlertMessage(w model.WorkloadWeek) string {
	noun := "deadlines"
	if w.DeadlineCount == 1 {
		noun = "deadline"
	}
	return fmt.Sprintf("%d %s, load score %s, week of %s",
		w.DeadlineCount, noun, studyplan.FormatNumber(w.LoadScore), weekDate(w).Format("02 Jan 2006"))
}

func currentOf(weeks []model.WorkloadWeek, now time.Time) *model.WorkloadWeek {
	key := workload.WeekKey(now)
	for i := range weeks {
		if weeks[i].WeekKey == key {
			w := weeks[i]
			return &w
		}
	}
	return nil
}

// peakOf expects weeks sorted ascending.
func peakOf(weeks []model.WorkloadWeek) *model.WorkloadWeek {
	var peak *model.WorkloadWeek
	for i := range weeks {
		if peak == nil || weeks[i].LoadScore > peak.LoadScore {
			w := weeks[i]
			peak = &w
		}
	}
	return peak
}

func horizon(weeks []model.WorkloadWeek, now time.Time, n int) []model.WorkloadWeek {
	y, m, d := workload.WeekStart(now).Date()
	limit := time.Date(y, m, d+7*n, 0, 0, 0, 0, now.Location()).Format(workload.KeyLayout)
	out := make([]model.WorkloadWeek, 0, len(weeks))
	for _, w := range weeks {
		if w.WeekKey < limit {
			out = append(out, w)
		}
	}
	return out
}
