package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/service"
	"deadline-tracker/internal/studyplan"
)

func TestParseDue(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)

	got, err := parseDue("2026-11-30 14:05", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 11, 30, 14, 5, 0, 0, loc)))

	got, err = parseDue(" 2026-11-30 ", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 11, 30, 23, 59, 0, 0, loc)), "bare date means end of day")

	_, err = parseDue("30.11.2026", loc)
	assert.Error(t, err)
}

func TestParseHours(t *testing.T) {
	h, err := parseHours("2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, h)

	h, err = parseHours("0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)

	for _, raw := range []string{"-1", "abc", "NaN", "Inf", ""} {
		_, err := parseHours(raw)
		assert.ErrorIs(t, err, errBadHours, raw)
	}
}

func TestFormatDeadlineMarksOverdueAndSoon(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	overdue := formatDeadline(model.Deadline{ID: 1, Title: "lab report", DueAt: now.Add(-time.Hour), EstimatedHours: 2}, now)
	assert.True(t, strings.HasPrefix(overdue, iconOverdue))
	assert.Contains(t, overdue, "Lab report")
	assert.Contains(t, overdue, "overdue")

	soon := formatDeadline(model.Deadline{ID: 2, Title: "Quiz", Course: "CS101", DueAt: now.Add(24 * time.Hour), EstimatedHours: 1.5}, now)
	assert.True(t, strings.HasPrefix(soon, iconDue))
	assert.Contains(t, soon, "CS101 · 1.5h")

	later := formatDeadline(model.Deadline{ID: 3, Title: "<Essay>", DueAt: now.Add(10 * 24 * time.Hour)}, now)
	assert.True(t, strings.HasPrefix(later, iconDefault))
	assert.Contains(t, later, "&lt;Essay&gt;")
}

func TestFormatPrioritiesOrdersByDueThenWeight(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	items := []studyplan.Item{
		{DeadlineID: 1, Title: "Later", DueAt: due.Add(time.Hour), Weight: 20, EstimatedHours: 1, WeekRisk: "critical"},
		{DeadlineID: 2, Title: "Light", DueAt: due, Weight: 3, EstimatedHours: 1, WeekRisk: "moderate"},
		{DeadlineID: 3, Title: "Heavy", DueAt: due, Weight: 15, EstimatedHours: 4, WeekRisk: "moderate"},
	}

	out := formatPriorities(items, now)
	heavy := strings.Index(out, "Heavy")
	light := strings.Index(out, "Light")
	later := strings.Index(out, "Later")
	assert.True(t, heavy < light && light < later, out)
	assert.Equal(t, "Later", items[0].Title, "input must not be reordered")
}

func TestFormatPlanSkipsEmptyDays(t *testing.T) {
	plan := &studyplan.Plan{
		Days: []studyplan.Day{
			{Date: "2026-10-14", Sessions: []studyplan.Session{{DeadlineID: 7, Task: "Revise chapter 3", Hours: 2}}},
			{Date: "2026-10-15"},
		},
		Notes: "Rest on Sunday",
	}
	out := formatPlan(plan)
	assert.Contains(t, out, "Revise chapter 3 · 2h (#7)")
	assert.NotContains(t, out, "2026-10-15")
	assert.Contains(t, out, "Rest on Sunday")
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Short", shortTitle("short", 10))
	assert.Equal(t, "Abcd…", shortTitle("abcdefgh", 5))
}

func TestInputPredicates(t *testing.T) {
	assert.True(t, isSkipInput(btnSkip))
	assert.True(t, isSkipInput("-"))
	assert.True(t, isConfirmInput(btnConfirm))
	assert.True(t, isCancelInput(btnCancel))
	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput(btnCancel))
}

func TestMutationErrorReplies(t *testing.T) {
	b := &Bot{log: logger.Nop()}

	_, handled := b.mutationError(nil)
	assert.False(t, handled)

	_, handled = b.mutationError(fmt.Errorf("%w: %w", service.ErrWorkloadStale, errors.New("db down")))
	assert.False(t, handled, "the mutation itself succeeded")

	reply, handled := b.mutationError(gorm.ErrRecordNotFound)
	assert.True(t, handled)
	assert.Equal(t, "Not found.", reply)

	reply, handled = b.mutationError(fmt.Errorf("%w: credits must be at least 1", service.ErrInvalidInput))
	assert.True(t, handled)
	assert.Equal(t, "credits must be at least 1", reply)

	reply, handled = b.mutationError(errors.New("boom"))
	assert.True(t, handled)
	assert.Equal(t, genericFailure, reply)
}
