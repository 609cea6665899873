package workload

import (
	"fmt"
	"strings"
)

// RiskLevel classifies a week's load score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Overloaded reports whether the level raises an alert.
func (r RiskLevel) Overloaded() bool {
	return r == RiskHigh || r == RiskCritical
}

// Impact classifies a single deadline's weight. ImpactCritical exists for
// completeness of the tier set; Classify never returns it.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// TypeWeight maps a deadline type keyword to its base weight.
type TypeWeight struct {
	Keyword string  `yaml:"keyword"`
	Weight  float64 `yaml:"weight"`
}

// Policy holds every scoring constant. The same value must be shared by the
// aggregator, the alert view and the study plan builder.
type Policy struct {
	TypeWeights       []TypeWeight `yaml:"type_weights"`
	DefaultBaseWeight float64      `yaml:"default_base_weight"`
	DefaultCredits    int          `yaml:"default_credits"`

	ImpactHigh   float64 `yaml:"impact_high"`
	ImpactMedium float64 `yaml:"impact_medium"`

	RiskCritical float64 `yaml:"risk_critical"`
	RiskHigh     float64 `yaml:"risk_high"`
	RiskModerate float64 `yaml:"risk_moderate"`
}

func DefaultPolicy() Policy {
	return Policy{
		TypeWeights: []TypeWeight{
			{Keyword: "final", Weight: 5},
			{Keyword: "exam", Weight: 5},
			{Keyword: "midterm", Weight: 4},
			{Keyword: "project", Weight: 3},
			{Keyword: "presentation", Weight: 3},
			{Keyword: "viva", Weight: 3},
			{Keyword: "quiz", Weight: 2},
			{Keyword: "lab", Weight: 2},
			{Keyword: "report", Weight: 2},
			{Keyword: "assignment", Weight: 1},
			{Keyword: "homework", Weight: 1},
		},
		DefaultBaseWeight: 1,
		DefaultCredits:    3,
		ImpactHigh:        10,
		ImpactMedium:      5,
		RiskCritical:      20,
		RiskHigh:          12,
		RiskModerate:      6,
	}
}

// Validate rejects policies that would make classification ambiguous.
func (p Policy) Validate() error {
	if p.DefaultBaseWeight <= 0 {
		return fmt.Errorf("default_base_weight must be positive")
	}
	if p.DefaultCredits < 1 {
		return fmt.Errorf("default_credits must be at least 1")
	}
	for i, tw := range p.TypeWeights {
		if strings.TrimSpace(tw.Keyword) == "" {
			return fmt.Errorf("type_weights[%d]: keyword is required", i)
		}
		if tw.Weight <= 0 {
			return fmt.Errorf("type_weights[%d] %q: weight must be positive", i, tw.Keyword)
		}
	}
	if !(p.ImpactHigh > p.ImpactMedium && p.ImpactMedium > 0) {
		return fmt.Errorf("impact thresholds must satisfy high > medium > 0")
	}
	if !(p.RiskCritical > p.RiskHigh && p.RiskHigh > p.RiskModerate && p.RiskModerate > 0) {
		return fmt.Errorf("risk thresholds must satisfy critical > high > moderate > 0")
	}
	return nil
}

// RiskFor maps a load score to its risk level.
func (p Policy) RiskFor(score float64) RiskLevel {
	switch {
	case score >= p.RiskCritical:
		return RiskCritical
	case score >= p.RiskHigh:
		return RiskHigh
	case score >= p.RiskModerate:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ImpactFor maps a deadline weight to its impact tier.
func (p Policy) ImpactFor(weight float64) Impact {
	switch {
	case weight >= p.ImpactHigh:
		return ImpactHigh
	case weight >= p.ImpactMedium:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
