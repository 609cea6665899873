package studyplan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func items() []Item {
	return []Item{
		{DeadlineID: 2, Title: "Quiz 3", Course: "MATH", Type: "Quiz", DueAt: now.Add(48 * time.Hour), EstimatedHours: 2, Weight: 6, Impact: "medium", WeekRisk: "moderate"},
		{DeadlineID: 1, Title: "Final", Course: "CS401", Type: "Final", DueAt: now.Add(24 * time.Hour), EstimatedHours: 10.5, Weight: 20, Impact: "high", WeekRisk: "critical"},
	}
}

func TestBuildPromptOrdersByPriority(t *testing.T) {
	p := BuildPrompt(items(), now, 5)
	assert.Contains(t, p.System, "JSON")
	assert.Contains(t, p.User, "2026-10-14 to 2026-10-18 (5 days)")

	final := strings.Index(p.User, `"Final"`)
	quiz := strings.Index(p.User, `"Quiz 3"`)
	require.NotEqual(t, -1, final)
	require.NotEqual(t, -1, quiz)
	assert.Less(t, final, quiz)
	assert.Contains(t, p.User, "hours=10.5 weight=20 impact=high week_risk=critical")
}

func TestBuildPromptEmpty(t *testing.T) {
	p := BuildPrompt(nil, now, 0)
	assert.Contains(t, p.User, "(7 days)")
	assert.Contains(t, p.User, "no upcoming deadlines")
}

func TestParsePlanToleratesFences(t *testing.T) {
	raw := "Here is your plan:\n```json\n" +
		`{"days":[{"date":"2026-10-14","sessions":[{"deadline_id":1,"task":"Revise","hours":3},{"deadline_id":42,"task":"?","hours":1}]}],"notes":"ok"}` +
		"\n```"
	plan, err := ParsePlan(raw, map[uint]bool{1: true})
	require.NoError(t, err)
	require.Len(t, plan.Days, 1)
	require.Len(t, plan.Days[0].Sessions, 1, "unknown deadline dropped")
	assert.Equal(t, uint(1), plan.Days[0].Sessions[0].DeadlineID)
	assert.Equal(t, "ok", plan.Notes)
}

func TestParsePlanRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no json":     "sorry, I can't help with that",
		"broken json": `{"days": [`,
		"no days":     `{"days": []}`,
		"bad date":    `{"days":[{"date":"tomorrow","sessions":[]}]}`,
		"zero hours":  `{"days":[{"date":"2026-10-14","sessions":[{"deadline_id":1,"task":"x","hours":0}]}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan(raw, nil)
			assert.ErrorIs(t, err, ErrMalformedPlan)
		})
	}
}

type stubGenerator struct {
	reply  string
	err    error
	system string
	user   string
}

func (g *stubGenerator) GenerateText(_ context.Context, system, user string) (string, error) {
	g.system, g.user = system, user
	return g.reply, g.err
}

func TestPlannerPassesEngineItems(t *testing.T) {
	gen := &stubGenerator{reply: `{"days":[{"date":"2026-10-14","sessions":[{"deadline_id":1,"task":"Final revision","hours":4}]}]}`}
	plan, err := NewPlanner(gen, 3).Plan(context.Background(), items(), now)
	require.NoError(t, err)
	assert.Len(t, plan.Days, 1)
	assert.Contains(t, gen.user, "id=1")
	assert.Contains(t, gen.user, "(3 days)")
}

func TestPlannerGeneratorFailure(t *testing.T) {
	boom := errors.New("rate limited")
	_, err := NewPlanner(&stubGenerator{err: boom}, 7).Plan(context.Background(), items(), now)
	assert.ErrorIs(t, err, boom)

	_, err = NewPlanner(&stubGenerator{reply: "not a plan"}, 7).Plan(context.Background(), items(), now)
	assert.ErrorIs(t, err, ErrMalformedPlan)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "20", FormatNumber(20))
	assert.Equal(t, "2.5", FormatNumber(2.5))
}
