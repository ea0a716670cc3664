// Package dailystats computes same-day activity counters from filtered
// ticket snapshots.
package dailystats

import (
	"time"

	"github.com/okian/bugathon/internal/domain/model"
)

// DateFormat is the calendar-date key for persisted daily rows.
const DateFormat = "2006-01-02"

// StartOfDay returns midnight UTC for the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Aggregate folds two independent snapshots into the current date's row:
// createdToday holds tickets created on or after the day boundary,
// fixedToday holds done tickets resolved on or after it. The sets are not
// mutually exclusive; a ticket opened and closed the same day appears in
// both. Active users is the union of reporters from the first set and
// assignees from the second.
func Aggregate(day time.Time, createdToday, fixedToday []model.Ticket) model.DailyStat {
	stat := model.DailyStat{
		Date:        day.UTC().Format(DateFormat),
		BugsCreated: len(createdToday),
		BugsFixed:   len(fixedToday),
	}

	active := make(map[string]struct{})
	for _, t := range createdToday {
		if t.Reporter.Present() {
			active[t.Reporter.Name] = struct{}{}
		}
	}
	for _, t := range fixedToday {
		stat.PointsEarned += t.AssigneePoints
		if t.Assignee.Present() {
			active[t.Assignee.Name] = struct{}{}
		}
	}
	stat.ActiveUsers = len(active)
	return stat
}
