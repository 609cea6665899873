package bot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/studyplan"
)

const (
	dueLayout     = "2006-01-02 15:04"
	iconDefault   = "🟢"
	iconDue       = "⏳"
	iconOverdue   = "⚠️"
	dueSoonWindow = 48 * time.Hour
)

var errBadHours = errors.New("hours must be a non-negative number")

// parseDue accepts "2006-01-02" or "2006-01-02 15:04" in loc. A bare date
// means the end of that day.
func parseDue(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(dueLayout, raw, loc); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, loc), nil
}

func parseHours(raw string) (float64, error) {
	h, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0, errBadHours
	}
	return h, nil
}

func formatHours(h float64) string {
	return studyplan.FormatNumber(h) + "h"
}

func formatDeadline(d model.Deadline, now time.Time) string {
	var b strings.Builder
	due := d.DueAt.In(now.Location())
	icon := iconDefault
	switch {
	case now.After(due):
		icon = iconOverdue
	case due.Sub(now) <= dueSoonWindow:
		icon = iconDue
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, d.ID, escape(normalizeTitle(d.Title))))

	var meta []string
	if d.Course != "" {
		meta = append(meta, escape(d.Course))
	}
	if d.Type != "" {
		meta = append(meta, escape(d.Type))
	}
	meta = append(meta, formatHours(d.EstimatedHours))
	b.WriteString("   " + strings.Join(meta, " · ") + "\n")

	if now.After(due) {
		b.WriteString(fmt.Sprintf("   ⏰ Due %s · <b>overdue</b>\n", due.Format(dueLayout)))
	} else {
		daysLeft := int(due.Sub(now).Hours()/24) + 1
		b.WriteString(fmt.Sprintf("   ⏰ Due %s · ≈%d day(s) left\n", due.Format(dueLayout), daysLeft))
	}
	if d.Notes != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(d.Notes)))
	}
	b.WriteByte('\n')
	return b.String()
}

// formatPriorities lists upcoming deadlines in planning order. It is what
// /plan shows when no plan generator is configured.
func formatPriorities(items []studyplan.Item, now time.Time) string {
	sorted := append([]studyplan.Item(nil), items...)
	studyplan.SortByPriority(sorted)

	var b strings.Builder
	b.WriteString("🧭 <b>Study priorities</b>\n")
	for i, it := range sorted {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, escape(normalizeTitle(it.Title))))
		if it.Course != "" {
			b.WriteString(" (" + escape(it.Course) + ")")
		}
		b.WriteString(fmt.Sprintf(" · due %s · weight %s · %s · week %s\n",
			it.DueAt.In(now.Location()).Format("Mon 02 Jan"),
			studyplan.FormatNumber(it.Weight),
			formatHours(it.EstimatedHours),
			it.WeekRisk))
	}
	return strings.TrimSpace(b.String())
}

func formatPlan(plan *studyplan.Plan) string {
	var b strings.Builder
	b.WriteString("🗒 <b>Study plan</b>\n")
	for _, day := range plan.Days {
		if len(day.Sessions) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", escape(day.Date)))
		for _, s := range day.Sessions {
			b.WriteString(fmt.Sprintf("• %s · %s (#%d)\n", escape(s.Task), formatHours(s.Hours), s.DeadlineID))
		}
	}
	if plan.Notes != "" {
		b.WriteString("\n" + escape(plan.Notes))
	}
	return strings.TrimSpace(b.String())
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
