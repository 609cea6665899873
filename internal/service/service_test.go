package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/testutil"
	"deadline-tracker/internal/workload"
)

// Wednesday 14 Oct 2026, 10:00 UTC.
var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type fixture struct {
	deadlineRepo *repository.DeadlineRepository
	courseRepo   *repository.CourseRepository
	weekRepo     *repository.WorkloadRepository
	sync         *SyncService
	deadlines    *DeadlineService
	courses      *CourseService
	insights     *InsightService
	digest       *DigestService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	return setupWithClock(t, FixedClock(testNow))
}

func setupWithClock(t *testing.T, clock Clock) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := logger.Nop()
	policy := workload.DefaultPolicy()

	f := &fixture{
		deadlineRepo: repository.NewDeadlineRepository(db),
		courseRepo:   repository.NewCourseRepository(db),
		weekRepo:     repository.NewWorkloadRepository(db),
	}
	f.sync = NewSyncService(f.deadlineRepo, f.courseRepo, f.weekRepo, policy, clock, 5*time.Second, log)
	f.deadlines = NewDeadlineService(f.deadlineRepo, f.sync, clock, log)
	f.courses = NewCourseService(f.courseRepo, f.sync, log)
	f.insights = NewInsightService(f.weekRepo, f.deadlineRepo, f.courseRepo, f.sync, policy, clock, log)
	f.digest = NewDigestService(f.insights, 4)
	return f
}

func hours(h float64) *float64 { return &h }

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

const day = 24 * time.Hour

func (f *fixture) create(t *testing.T, userID uint, typ, course string, due time.Duration) *model.Deadline {
	t.Helper()
	d, err := f.deadlines.Create(context.Background(), userID, DeadlineInput{
		Title:          typ + " " + course,
		Course:         course,
		Type:           typ,
		DueAt:          at(due),
		EstimatedHours: hours(2),
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) stored(t *testing.T, userID uint) []model.WorkloadWeek {
	t.Helper()
	weeks, err := f.weekRepo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return weeks
}
