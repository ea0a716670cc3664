package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/bugathon/internal/domain/model"
)

// MemoryStore implements Store on in-process maps. Used by tests and by
// deployments that do not need durability across restarts.
type MemoryStore struct {
	mu           sync.RWMutex
	tickets      map[string]model.Ticket
	scores       map[string]model.UserScore
	dailyStats   map[string]model.DailyStat
	achievements map[[2]string]model.Achievement
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:      make(map[string]model.Ticket),
		scores:       make(map[string]model.UserScore),
		dailyStats:   make(map[string]model.DailyStat),
		achievements: make(map[[2]string]model.Achievement),
	}
}

// UpsertTickets overwrites each batch row keyed by ticket identifier.
func (s *MemoryStore) UpsertTickets(_ context.Context, tickets []model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickets {
		s.tickets[t.Key] = t
	}
	return nil
}

// Tickets returns the complete current ticket set.
func (s *MemoryStore) Tickets(_ context.Context) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	return out, nil
}

// TicketsCreatedSince returns tickets created at or after the cutoff.
func (s *MemoryStore) TicketsCreatedSince(_ context.Context, cutoff time.Time) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Ticket
	for _, t := range s.tickets {
		if !t.Created.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TicketsResolvedSince returns done-category tickets resolved at or after
// the cutoff.
func (s *MemoryStore) TicketsResolvedSince(_ context.Context, cutoff time.Time) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Ticket
	for _, t := range s.tickets {
		if t.StatusCategory == model.StatusCategoryDone && t.Resolved != nil && !t.Resolved.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpsertScores replaces each user's row wholesale.
func (s *MemoryStore) UpsertScores(_ context.Context, scores []model.UserScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range scores {
		s.scores[sc.Name] = sc
	}
	return nil
}

// Scores returns all user standings.
func (s *MemoryStore) Scores(_ context.Context) ([]model.UserScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.UserScore, 0, len(s.scores))
	for _, sc := range s.scores {
		out = append(out, sc)
	}
	return out, nil
}

// UpsertDailyStat replaces the row for stat.Date.
func (s *MemoryStore) UpsertDailyStat(_ context.Context, stat model.DailyStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyStats[stat.Date] = stat
	return nil
}

// DailyStatsSince returns rows with date >= fromDate, newest first.
func (s *MemoryStore) DailyStatsSince(_ context.Context, fromDate string) ([]model.DailyStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DailyStat
	for date, st := range s.dailyStats {
		if date >= fromDate {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// Achievement returns the existing grant or ErrNotFound.
func (s *MemoryStore) Achievement(_ context.Context, userName, badgeName string) (model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.achievements[[2]string{userName, badgeName}]
	if !ok {
		return model.Achievement{}, ErrNotFound
	}
	return a, nil
}

// InsertAchievement adds a new grant row.
func (s *MemoryStore) InsertAchievement(_ context.Context, a model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements[[2]string{a.UserName, a.BadgeName}] = a
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
