// Package model contains domain models passed between layers.
package model

import "time"

// NewBugMarker is the summary token that marks a ticket as a freshly
// reported bug. Matching is case-insensitive.
const NewBugMarker = "[bugathon new]"

// StatusCategoryDone is the terminal status category for resolved tickets.
// Other category keys pass through the engine opaquely.
const StatusCategoryDone = "done"

// RawTicket is one record as returned by the external ticket source.
// Optional fields decode to their zero value: SprintPoints to 0, Assignee
// to an empty name, Resolved to nil.
type RawTicket struct {
	Key            string     // external ticket identifier, e.g. "BUG-123"
	Summary        string     // one-line title
	Status         string     // status display name
	StatusCategory string     // coarse status bucket, e.g. "done"
	Reporter       User       // who filed the ticket
	Assignee       User       // who owns the fix; empty name means unassigned
	SprintPoints   float64    // effort/value estimate
	Created        time.Time  // creation timestamp
	Resolved       *time.Time // resolution timestamp, nil while open
	Priority       string
	IssueType      string
}

// User is a ticket-source identity. Name is the display name used as the
// scoring key; an empty Name means the identity is absent.
type User struct {
	ID   string
	Name string
}

// Present reports whether the identity carries a usable display name.
func (u User) Present() bool {
	return u.Name != ""
}

// Ticket is the normalized, persisted form of a RawTicket. Rows are keyed
// by Key and overwritten wholesale on every sync; ReporterPoints and
// AssigneePoints are always re-derivable from (IsNewBug, StatusCategory,
// SprintPoints).
type Ticket struct {
	Key            string
	Summary        string
	Status         string
	StatusCategory string
	Reporter       User
	Assignee       User
	SprintPoints   float64
	IsNewBug       bool
	ReporterPoints float64
	AssigneePoints float64
	Created        time.Time
	Resolved       *time.Time
	Priority       string
	IssueType      string
	LastUpdated    time.Time
}

// UserScore is a user's aggregate standing, fully recomputed from the
// complete ticket set on every sync. Keyed by Name.
type UserScore struct {
	Name           string
	BugsReported   int
	BugsFixed      int
	ReporterPoints float64
	AssigneePoints float64
	TotalPoints    float64
	Badges         []string
	UpdatedAt      time.Time
}

// DailyStat holds same-day counters. Keyed by Date ("2006-01-02", UTC);
// only the current date's row is recomputed per sync.
type DailyStat struct {
	Date         string
	BugsCreated  int
	BugsFixed    int
	PointsEarned float64
	ActiveUsers  int
}

// Achievement is an idempotently granted milestone record. At most one row
// per (UserName, BadgeName) pair ever exists; EarnedAt keeps the timestamp
// of the first grant.
type Achievement struct {
	UserName    string
	BadgeName   string
	BadgeIcon   string
	Description string
	EarnedAt    time.Time
}
