// Package repository defines the persistence contract for the scoring
// engine and its SQLite and in-memory implementations.
package repository

import (
	"context"
	"time"

	"github.com/okian/bugathon/internal/domain/model"
)

// Collection names as addressed in the backing store.
const (
	CollectionTickets      = "tickets"
	CollectionUserScores   = "user_scores"
	CollectionDailyStats   = "daily_stats"
	CollectionAchievements = "achievements"
)

// TicketStore persists normalized tickets keyed by ticket identifier.
type TicketStore interface {
	// UpsertTickets bulk-writes the batch; existing rows are overwritten
	// wholesale, new rows inserted. All-or-nothing per batch.
	UpsertTickets(ctx context.Context, tickets []model.Ticket) error

	// Tickets returns the complete current ticket set.
	Tickets(ctx context.Context) ([]model.Ticket, error)

	// TicketsCreatedSince returns tickets created at or after the cutoff.
	TicketsCreatedSince(ctx context.Context, cutoff time.Time) ([]model.Ticket, error)

	// TicketsResolvedSince returns done-category tickets resolved at or
	// after the cutoff.
	TicketsResolvedSince(ctx context.Context, cutoff time.Time) ([]model.Ticket, error)
}

// ScoreStore persists user standings keyed by display name.
type ScoreStore interface {
	UpsertScores(ctx context.Context, scores []model.UserScore) error
	Scores(ctx context.Context) ([]model.UserScore, error)
}

// StatsStore persists daily counters keyed by calendar date.
type StatsStore interface {
	UpsertDailyStat(ctx context.Context, stat model.DailyStat) error

	// DailyStatsSince returns rows with date >= fromDate (lexicographic on
	// the "2006-01-02" key), newest first.
	DailyStatsSince(ctx context.Context, fromDate string) ([]model.DailyStat, error)
}

// AchievementStore persists milestone grants keyed by (user, badge).
type AchievementStore interface {
	// Achievement returns the existing grant or ErrNotFound.
	Achievement(ctx context.Context, userName, badgeName string) (model.Achievement, error)

	// InsertAchievement adds a new grant. The caller checks for existence
	// first; a conflicting insert is a store error.
	InsertAchievement(ctx context.Context, a model.Achievement) error
}

// Store bundles all collections used by a sync run.
type Store interface {
	TicketStore
	ScoreStore
	StatsStore
	AchievementStore

	Close() error
}
