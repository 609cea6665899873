// Package studyplan builds the language-model prompt for a day-by-day study
// plan and validates the reply. Priorities come from the workload engine's
// scores; nothing here re-scores deadlines.
package studyplan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Item is one upcoming deadline as seen by the planner, carrying the
// engine's weight and the risk of the week it falls in.
type Item struct {
	DeadlineID     uint      `json:"deadline_id"`
	Title          string    `json:"title"`
	Course         string    `json:"course,omitempty"`
	Type           string    `json:"type,omitempty"`
	DueAt          time.Time `json:"due_at"`
	EstimatedHours float64   `json:"estimated_hours"`
	Weight         float64   `json:"weight"`
	Impact         string    `json:"impact"`
	WeekStart      time.Time `json:"week_start"`
	WeekRisk       string    `json:"week_risk"`
}

// Prompt is a system/user message pair.
type Prompt struct {
	System string
	User   string
}

// SortByPriority orders items by due date, heavier first on the same instant.
func SortByPriority(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DueAt.Equal(items[j].DueAt) {
			return items[i].DueAt.Before(items[j].DueAt)
		}
		if items[i].Weight != items[j].Weight {
			return items[i].Weight > items[j].Weight
		}
		return items[i].DeadlineID < items[j].DeadlineID
	})
}

// BuildPrompt renders the planning request for the days starting at now.
func BuildPrompt(items []Item, now time.Time, days int) Prompt {
	if days <= 0 {
		days = 7
	}
	sorted := append([]Item(nil), items...)
	SortByPriority(sorted)

	system := strings.Join([]string{
		"You are a study planner for a university student.",
		"Distribute study sessions across the requested days so every deadline gets its estimated hours before it is due.",
		"Give more and earlier time to deadlines with higher weight and to weeks with high or critical risk.",
		"Never schedule more than 8 hours on one day.",
		`Reply with JSON only: {"days":[{"date":"YYYY-MM-DD","sessions":[{"deadline_id":1,"task":"...","hours":1.5}]}],"notes":"..."}`,
	}, " ")

	var b strings.Builder
	last := now.AddDate(0, 0, days-1)
	fmt.Fprintf(&b, "Plan from %s to %s (%d days).\n", now.Format(dateLayout), last.Format(dateLayout), days)
	if len(sorted) == 0 {
		b.WriteString("There are no upcoming deadlines.\n")
		return Prompt{System: system, User: b.String()}
	}
	b.WriteString("Deadlines in priority order:\n")
	for _, it := range sorted {
		daysLeft := int(it.DueAt.Sub(now).Hours() / 24)
		fmt.Fprintf(&b, "- id=%d %q", it.DeadlineID, it.Title)
		if it.Course != "" {
			fmt.Fprintf(&b, " course=%s", it.Course)
		}
		if it.Type != "" {
			fmt.Fprintf(&b, " type=%s", it.Type)
		}
		fmt.Fprintf(&b, " due=%s (in %d days) hours=%s weight=%s impact=%s week_risk=%s\n",
			it.DueAt.Format(time.RFC3339), daysLeft,
			FormatNumber(it.EstimatedHours), FormatNumber(it.Weight), it.Impact, it.WeekRisk)
	}
	return Prompt{System: system, User: b.String()}
}

// FormatNumber prints whole numbers without a fraction.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
