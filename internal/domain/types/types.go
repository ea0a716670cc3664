// Package types contains common read shapes used across the application
package types

// Entry represents a leaderboard row as served to clients. Ranks are dense
// and assigned at the read boundary: total points descending, ties broken
// by name ascending.
type Entry struct {
	Rank           int      `json:"rank"`
	Name           string   `json:"name"`
	BugsReported   int      `json:"bugs_reported"`
	BugsFixed      int      `json:"bugs_fixed"`
	ReporterPoints float64  `json:"reporter_points"`
	AssigneePoints float64  `json:"assignee_points"`
	TotalPoints    float64  `json:"total_points"`
	Badges         []string `json:"badges"`
}

// DayStat is one day's counters in the combined stats series.
type DayStat struct {
	Date         string  `json:"date"`
	BugsCreated  int     `json:"bugs_created"`
	BugsFixed    int     `json:"bugs_fixed"`
	PointsEarned float64 `json:"points_earned"`
	ActiveUsers  int     `json:"active_users"`
}

// TeamTotals aggregates the whole event across all users and days.
type TeamTotals struct {
	BugsFixed    int     `json:"bugs_fixed"`
	TotalPoints  float64 `json:"total_points"`
	Contributors int     `json:"contributors"`
	FixedToday   int     `json:"fixed_today"`
}

// CombinedStats is the payload for the stats read surface: a recent daily
// series plus team-wide totals.
type CombinedStats struct {
	Daily  []DayStat  `json:"daily"`
	Totals TeamTotals `json:"totals"`
}

// SyncResult reports a completed sync run.
type SyncResult struct {
	RunID            string `json:"run_id"`
	TicketsProcessed int    `json:"tickets_processed"`
}
