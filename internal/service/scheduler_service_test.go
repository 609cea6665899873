package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadline-tracker/internal/pkg/logger"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("08:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 8 * * *", spec)

	for _, bad := range []string{"", "8", "24:00", "07:60", "aa:bb"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildIntervalSpec(t *testing.T) {
	spec, err := buildIntervalSpec(6 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "@every 21600s", spec)

	spec, err = buildIntervalSpec(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "@every 1s", spec)

	_, err = buildIntervalSpec(0)
	assert.Error(t, err)
}

func TestSchedulerWrapBoundsJobContext(t *testing.T) {
	s := NewSchedulerService(time.UTC, 50*time.Millisecond, logger.Nop())
	var deadlineSet bool
	s.wrap("probe", func(ctx context.Context) error {
		_, deadlineSet = ctx.Deadline()
		return errors.New("ignored")
	})()
	assert.True(t, deadlineSet)

	_, err := s.ScheduleDaily("digest", "25:00", func(context.Context) error { return nil })
	assert.Error(t, err)
	_, err = s.ScheduleInterval("digest", time.Hour, func(context.Context) error { return nil })
	assert.NoError(t, err)
}
