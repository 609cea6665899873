package studyplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedPlan is returned when the model reply cannot be used.
var ErrMalformedPlan = errors.New("malformed study plan")

// Generator is the language model collaborator.
type Generator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type Session struct {
	DeadlineID uint    `json:"deadline_id"`
	Task       string  `json:"task"`
	Hours      float64 `json:"hours"`
}

type Day struct {
	Date     string    `json:"date"`
	Sessions []Session `json:"sessions"`
}

type Plan struct {
	Days  []Day  `json:"days"`
	Notes string `json:"notes,omitempty"`
}

// ParsePlan decodes a model reply. Markdown code fences and leading prose are
// tolerated; dates must parse and hours must be positive. Sessions that
// reference unknown deadlines are dropped when known is non-empty.
func ParsePlan(raw string, known map[uint]bool) (*Plan, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedPlan)
	}
	var plan Plan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("%w: no days", ErrMalformedPlan)
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		if _, err := time.Parse(dateLayout, day.Date); err != nil {
			return nil, fmt.Errorf("%w: day %d has bad date %q", ErrMalformedPlan, i, day.Date)
		}
		kept := day.Sessions[:0]
		for _, s := range day.Sessions {
			if s.Hours <= 0 {
				return nil, fmt.Errorf("%w: day %s has non-positive hours", ErrMalformedPlan, day.Date)
			}
			if len(known) > 0 && !known[s.DeadlineID] {
				continue
			}
			kept = append(kept, s)
		}
		day.Sessions = kept
	}
	return &plan, nil
}

func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// Planner asks the generator for a plan over the engine's items.
type Planner struct {
	gen  Generator
	days int
}

func NewPlanner(gen Generator, days int) *Planner {
	if days <= 0 {
		days = 7
	}
	return &Planner{gen: gen, days: days}
}

func (p *Planner) Plan(ctx context.Context, items []Item, now time.Time) (*Plan, error) {
	prompt := BuildPrompt(items, now, p.days)
	raw, err := p.gen.GenerateText(ctx, prompt.System, prompt.User)
	if err != nil {
		return nil, fmt.Errorf("generate study plan: %w", err)
	}
	known := make(map[uint]bool, len(items))
	for _, it := range items {
		known[it.DeadlineID] = true
	}
	return ParsePlan(raw, known)
}
