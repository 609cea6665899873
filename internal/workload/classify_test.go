package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadline-tracker/internal/model"
)

func TestBaseWeightKeywordTable(t *testing.T) {
	p := DefaultPolicy()
	cases := map[string]float64{
		"Final":            5,
		"Final Exam":       5,
		"Midterm Exam":     4,
		"midterm":          4,
		"Group Project":    3,
		"Presentation":     3,
		"Viva":             3,
		"Quiz":             2,
		"Lab Report":       2,
		"Assignment":       1,
		"Homework 3":       1,
		"Exams":            5,
		"reading":          1,
		"":                 1,
		"syllabus reading": 1,
	}
	for in, want := range cases {
		assert.Equal(t, want, p.BaseWeight(in), "type %q", in)
	}
}

func TestClassifyUsesCourseCredits(t *testing.T) {
	p := DefaultPolicy()
	credits := Credits{}
	credits.Add("CS101", 4)

	final := Classify(model.Deadline{Type: "Final", Course: " cs101 "}, credits, p)
	assert.Equal(t, 20.0, final.Weight)
	assert.Equal(t, 4, final.Credits)
	assert.Equal(t, ImpactHigh, final.Impact)

	quiz := Classify(model.Deadline{Type: "Quiz", Course: "unknown"}, credits, p)
	assert.Equal(t, 3, quiz.Credits)
	assert.Equal(t, 6.0, quiz.Weight)
	assert.Equal(t, ImpactMedium, quiz.Impact)

	hw := Classify(model.Deadline{Type: "Homework"}, nil, p)
	assert.Equal(t, 3.0, hw.Weight)
	assert.Equal(t, ImpactLow, hw.Impact)
}

func TestClassifyIgnoresNonPositiveCredits(t *testing.T) {
	credits := Credits{"math": 0}
	c := Classify(model.Deadline{Type: "Quiz", Course: "math"}, credits, DefaultPolicy())
	assert.Equal(t, 3, c.Credits)
}

func TestClassifyIsDeterministic(t *testing.T) {
	d := model.Deadline{Type: "Midterm", Course: "PHY"}
	credits := Credits{"phy": 2}
	first := Classify(d, credits, DefaultPolicy())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(d, credits, DefaultPolicy()))
	}
}

func TestRiskThresholdsMonotonic(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())
	assert.Greater(t, p.RiskCritical, p.RiskHigh)
	assert.Greater(t, p.RiskHigh, p.RiskModerate)

	order := map[RiskLevel]int{RiskLow: 0, RiskModerate: 1, RiskHigh: 2, RiskCritical: 3}
	prev := RiskLow
	for score := 0.0; score <= 40; score += 0.5 {
		cur := p.RiskFor(score)
		assert.GreaterOrEqual(t, order[cur], order[prev], "score %v", score)
		prev = cur
	}
	assert.Equal(t, RiskLow, p.RiskFor(5.99))
	assert.Equal(t, RiskModerate, p.RiskFor(6))
	assert.Equal(t, RiskHigh, p.RiskFor(12))
	assert.Equal(t, RiskCritical, p.RiskFor(20))
}

func TestPolicyValidateRejectsBadThresholds(t *testing.T) {
	p := DefaultPolicy()
	p.RiskHigh = p.RiskCritical
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.DefaultCredits = 0
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.TypeWeights = append(p.TypeWeights, TypeWeight{Keyword: "essay", Weight: 0})
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.ImpactMedium = p.ImpactHigh + 1
	assert.Error(t, p.Validate())
}
