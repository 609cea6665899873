package workload

import (
	"sort"
	"time"

	"deadline-tracker/internal/model"
)

// Upcoming reports whether d contributes to aggregation at now.
func Upcoming(d model.Deadline, now time.Time) bool {
	return !d.IsCompleted && !d.DueAt.Before(now)
}

// Aggregate buckets the upcoming, open deadlines by week and scores each
// bucket. The result is keyed by WeekKey and has no entry for empty weeks.
// Output is fully determined by the inputs.
func Aggregate(userID uint, deadlines []model.Deadline, now time.Time, credits CreditsLookup, p Policy) map[string]model.WorkloadWeek {
	loc := now.Location()

	eligible := make([]model.Deadline, 0, len(deadlines))
	for _, d := range deadlines {
		if Upcoming(d, now) {
			eligible = append(eligible, d)
		}
	}
	// Summation order is fixed so repeated passes produce identical scores.
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	weeks := make(map[string]model.WorkloadWeek)
	for _, d := range eligible {
		due := d.DueAt.In(loc)
		key := WeekKey(due)
		w, ok := weeks[key]
		if !ok {
			w = model.WorkloadWeek{
				UserID:    userID,
				WeekKey:   key,
				WeekStart: WeekStart(due),
				WeekEnd:   WeekEnd(due),
			}
		}
		w.LoadScore += Classify(d, credits, p).Weight
		w.DeadlineCount++
		w.DeadlineIDs = append(w.DeadlineIDs, d.ID)
		weeks[key] = w
	}

	for key, w := range weeks {
		w.RiskLevel = string(p.RiskFor(w.LoadScore))
		weeks[key] = w
	}
	return weeks
}

// Sorted returns the weeks ordered by week start.
func Sorted(weeks map[string]model.WorkloadWeek) []model.WorkloadWeek {
	out := make([]model.WorkloadWeek, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, w)
	}
	SortWeeks(out)
	return out
}

// SortWeeks orders weeks ascending by start.
func SortWeeks(weeks []model.WorkloadWeek) {
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekKey < weeks[j].WeekKey })
}
