package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/studyplan"
	"deadline-tracker/internal/workload"
)

// DigestService builds the human-readable overload notifications.
type DigestService struct {
	insights *InsightService
	horizon  int
}

func NewDigestService(insights *InsightService, horizonWeeks int) *DigestService {
	return &DigestService{insights: insights, horizon: horizonWeeks}
}

// Digest renders the overload digest for user. ok is false when the user
// has no high or critical week and nothing should be sent. The user is
// re-synced first, since deadlines may have fallen due since the last change.
func (s *DigestService) Digest(ctx context.Context, user model.User) (text string, ok bool, err error) {
	if err := s.insights.Refresh(ctx, user.ID); err != nil {
		return "", false, err
	}
	alerts, err := s.insights.Alerts(ctx, user.ID)
	if err != nil {
		return "", false, err
	}
	if len(alerts) == 0 {
		return "", false, nil
	}
	sum, err := s.insights.Summary(ctx, user.ID, s.horizon)
	if err != nil {
		return "", false, err
	}

	var b strings.Builder
	b.WriteString("🚨 <b>Workload alert</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", sum.Now.Format("02 Jan 2006")))
	b.WriteString(FormatAlerts(alerts))
	if sum.OverloadedCount > 0 {
		b.WriteString(fmt.Sprintf("\n%d of the next %d weeks are overloaded. Use /plan to spread the work.",
			sum.OverloadedCount, sum.HorizonWeeks))
	}
	return strings.TrimSpace(b.String()), true, nil
}

// FormatAlerts renders alerts as Telegram HTML.
func FormatAlerts(alerts []Alert) string {
	if len(alerts) == 0 {
		return "✅ No overloaded weeks ahead.\n"
	}
	var b strings.Builder
	for _, a := range alerts {
		b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s\n", RiskIcon(a.RiskLevel), strings.ToUpper(string(a.RiskLevel)), html.EscapeString(a.Message)))
		for _, d := range a.Deadlines {
			b.WriteString("   " + FormatScoredDeadline(d) + "\n")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatScoredDeadline is a one-line deadline description with its weight.
func FormatScoredDeadline(d ScoredDeadline) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("• #%d %s", d.ID, html.EscapeString(strings.TrimSpace(d.Title))))
	if c := strings.TrimSpace(d.Course); c != "" {
		b.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(c)))
	}
	b.WriteString(fmt.Sprintf(" · %s · weight %s", d.DueAt.Format("Mon 02 Jan"), studyplan.FormatNumber(d.Weight)))
	return b.String()
}

// FormatWeek renders one workload week as a line.
func FormatWeek(w model.WorkloadWeek) string {
	return fmt.Sprintf("%s <b>%s – %s</b> · score %s · %d due · %s",
		RiskIcon(workload.RiskLevel(w.RiskLevel)),
		weekDate(w).Format("02 Jan"), weekDate(w).AddDate(0, 0, 6).Format("02 Jan"),
		studyplan.FormatNumber(w.LoadScore), w.DeadlineCount, w.RiskLevel)
}

// weekDate is the calendar date of the week's Monday. It comes from the key
// so the label does not depend on the location the driver returns times in.
func weekDate(w model.WorkloadWeek) time.Time {
	if d, err := time.Parse(workload.KeyLayout, w.WeekKey); err == nil {
		return d
	}
	return w.WeekStart
}

// FormatSummary renders the dashboard view.
func FormatSummary(sum *Summary) string {
	var b strings.Builder
	b.WriteString("📊 <b>Workload summary</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", sum.Now.Format("02 Jan 2006")))

	b.WriteString("<b>This week</b>\n")
	if sum.CurrentWeek == nil {
		b.WriteString("— nothing due this week\n")
	} else {
		b.WriteString(FormatWeek(*sum.CurrentWeek) + "\n")
	}

	b.WriteString("\n<b>Peak week</b>\n")
	if sum.PeakWeek == nil {
		b.WriteString("— no upcoming deadlines\n")
	} else {
		b.WriteString(FormatWeek(*sum.PeakWeek) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n<b>Next %d weeks</b>\n", sum.HorizonWeeks))
	if len(sum.Weeks) == 0 {
		b.WriteString("— no upcoming deadlines\n")
	}
	for _, w := range sum.Weeks {
		b.WriteString(FormatWeek(w) + "\n")
	}
	if sum.OverloadedCount > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d overloaded week(s) in this window. See /alerts.", sum.OverloadedCount))
	}
	return strings.TrimSpace(b.String())
}

func RiskIcon(r workload.RiskLevel) string {
	switch r {
	case workload.RiskCritical:
		return "🔴"
	case workload.RiskHigh:
		return "🟠"
	case workload.RiskModerate:
		return "🟡"
	default:
		return "🟢"
	}
}
