package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/workload"
)

func TestSyncFinalWithFourCreditsIsCritical(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.courses.Set(ctx, 1, "CS401", "Compilers", 4)
	require.NoError(t, err)
	f.create(t, 1, "Final", "CS401", 3*day)

	weeks := f.stored(t, 1)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2026-10-12", weeks[0].WeekKey)
	assert.Equal(t, 20.0, weeks[0].LoadScore)
	assert.Equal(t, string(workload.RiskCritical), weeks[0].RiskLevel)
	assert.Equal(t, 1, weeks[0].DeadlineCount)
}

func TestSyncCourseMatchedByName(t *testing.T) {
	f := setup(t)
	_, err := f.courses.Set(context.Background(), 1, "CS401", "Compilers", 4)
	require.NoError(t, err)
	f.create(t, 1, "Quiz", "compilers", day)

	weeks := f.stored(t, 1)
	require.Len(t, weeks, 1)
	assert.Equal(t, 8.0, weeks[0].LoadScore)
}

func TestSyncAssignmentAndQuizAreModerate(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Assignment", "MATH", day)
	f.create(t, 1, "Quiz", "MATH", 2*day)

	weeks := f.stored(t, 1)
	require.Len(t, weeks, 1)
	assert.Equal(t, 9.0, weeks[0].LoadScore)
	assert.Equal(t, string(workload.RiskModerate), weeks[0].RiskLevel)
	assert.Equal(t, 2, weeks[0].DeadlineCount)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Final", "A", day)
	f.create(t, 1, "Quiz", "B", 9*day)
	f.create(t, 1, "Lab", "B", 10*day)

	first, err := f.sync.SyncUser(context.Background(), 1)
	require.NoError(t, err)
	second, err := f.sync.SyncUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestSyncExcludesPastDeadlines(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Final", "A", -day)
	assert.Empty(t, f.stored(t, 1))

	past := f.create(t, 1, "Final", "A", -day)
	_, err := f.deadlines.SetCompleted(context.Background(), 1, past.ID, true)
	require.NoError(t, err)
	assert.Empty(t, f.stored(t, 1))
}

func TestSyncPrunesWeekAfterDelete(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Quiz", "A", day)
	only := f.create(t, 1, "Project", "A", 8*day)
	require.Len(t, f.stored(t, 1), 2)

	require.NoError(t, f.deadlines.Delete(context.Background(), 1, only.ID))
	weeks := f.stored(t, 1)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2026-10-12", weeks[0].WeekKey)
}

func TestSyncPrunesWeekAfterCompletion(t *testing.T) {
	f := setup(t)
	only := f.create(t, 1, "Project", "A", 8*day)
	require.Len(t, f.stored(t, 1), 1)

	_, err := f.deadlines.SetCompleted(context.Background(), 1, only.ID, true)
	require.NoError(t, err)
	assert.Empty(t, f.stored(t, 1))

	_, err = f.deadlines.SetCompleted(context.Background(), 1, only.ID, false)
	require.NoError(t, err)
	assert.Len(t, f.stored(t, 1), 1)
}

func TestSyncCompletionReducesLoadByWeight(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Project", "A", day)
	quiz := f.create(t, 1, "Quiz", "A", 2*day)
	before := f.stored(t, 1)[0]

	_, err := f.deadlines.SetCompleted(context.Background(), 1, quiz.ID, true)
	require.NoError(t, err)
	after := f.stored(t, 1)[0]

	assert.Equal(t, before.LoadScore-6, after.LoadScore)
	assert.NotContains(t, after.DeadlineIDs, quiz.ID)
	assert.Equal(t, before.DeadlineCount-1, after.DeadlineCount)
}

func TestSyncEditMovesDeadlineBetweenWeeks(t *testing.T) {
	f := setup(t)
	d := f.create(t, 1, "Project", "A", day)
	require.Equal(t, "2026-10-12", f.stored(t, 1)[0].WeekKey)

	typ := "Final"
	_, err := f.deadlines.Update(context.Background(), 1, d.ID, DeadlinePatch{DueAt: at(14 * day), Type: &typ})
	require.NoError(t, err)

	weeks := f.stored(t, 1)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2026-10-26", weeks[0].WeekKey)
	assert.Equal(t, 15.0, weeks[0].LoadScore)
}

func TestSyncCreditsChangeRescores(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Quiz", "BIO", day)
	assert.Equal(t, 6.0, f.stored(t, 1)[0].LoadScore)

	_, err := f.courses.Set(context.Background(), 1, "BIO", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 10.0, f.stored(t, 1)[0].LoadScore)
}

func TestSyncIsolatesUsers(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Final", "A", day)
	f.create(t, 2, "Quiz", "A", day)

	assert.Equal(t, 15.0, f.stored(t, 1)[0].LoadScore)
	assert.Equal(t, 6.0, f.stored(t, 2)[0].LoadScore)
}

func TestSyncMembershipMatchesSource(t *testing.T) {
	f := setup(t)
	types := []string{"Quiz", "Final", "Lab", "Essay", "Midterm"}
	for i := 0; i < 25; i++ {
		d := f.create(t, 1, types[i%len(types)], "X", time.Duration(i*13-60)*time.Hour)
		if i%4 == 0 {
			_, err := f.deadlines.SetCompleted(context.Background(), 1, d.ID, true)
			require.NoError(t, err)
		}
	}

	all, err := f.deadlineRepo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	members := map[uint]string{}
	for _, w := range f.stored(t, 1) {
		for _, id := range w.DeadlineIDs {
			members[id] = w.WeekKey
		}
	}
	for _, d := range all {
		key, in := members[d.ID]
		assert.Equal(t, workload.Upcoming(d, testNow), in, "deadline %d", d.ID)
		if in {
			assert.Equal(t, workload.WeekKey(d.DueAt.In(time.UTC)), key)
		}
	}
}

type failingDeadlines struct{ err error }

func (f failingDeadlines) ListByUser(context.Context, uint) ([]model.Deadline, error) {
	return nil, f.err
}

func TestSyncSourceFailureKeepsStoredWeeks(t *testing.T) {
	f := setup(t)
	f.create(t, 1, "Final", "A", day)
	before := f.stored(t, 1)
	require.Len(t, before, 1)

	boom := errors.New("disk on fire")
	broken := NewSyncService(failingDeadlines{err: boom}, f.courseRepo, f.weekRepo, workload.DefaultPolicy(), FixedClock(testNow), 0, logger.Nop())
	_, err := broken.SyncUser(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, before, f.stored(t, 1))
}

func TestMutationReportsStaleWorkloadOnSyncFailure(t *testing.T) {
	f := setup(t)
	boom := errors.New("unavailable")
	broken := NewSyncService(failingDeadlines{err: boom}, f.courseRepo, f.weekRepo, workload.DefaultPolicy(), FixedClock(testNow), 0, logger.Nop())
	svc := NewDeadlineService(f.deadlineRepo, broken, FixedClock(testNow), logger.Nop())

	d, err := svc.Create(context.Background(), 1, DeadlineInput{Title: "Essay", DueAt: at(day), EstimatedHours: hours(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkloadStale)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, d)
	assert.NotZero(t, d.ID)
}

func TestSyncConcurrentPassesSettle(t *testing.T) {
	f := setup(t)
	for i := 0; i < 5; i++ {
		f.create(t, 1, "Quiz", "A", time.Duration(i+1)*day)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sync.SyncUser(context.Background(), 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	expected := workload.Sorted(workload.Aggregate(1, mustList(t, f, 1), testNow, nil, workload.DefaultPolicy()))
	got := f.stored(t, 1)
	require.Len(t, got, len(expected))
	for i := range got {
		assert.Equal(t, expected[i].WeekKey, got[i].WeekKey)
		assert.Equal(t, expected[i].LoadScore, got[i].LoadScore)
		assert.Equal(t, expected[i].DeadlineIDs, got[i].DeadlineIDs)
	}
}

func mustList(t *testing.T, f *fixture, userID uint) []model.Deadline {
	t.Helper()
	list, err := f.deadlineRepo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return list
}

func TestUserLocksSerializeAndHonorContext(t *testing.T) {
	locks := newUserLocks()
	unlock, err := locks.lock(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.lock(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locks.lock(context.Background(), 2)
	require.NoError(t, err, "other users are not blocked")
	other()

	unlock()
	again, err := locks.lock(context.Background(), 1)
	require.NoError(t, err)
	again()
	assert.Empty(t, locks.entries)
}
