// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	repository "github.com/okian/bugathon/internal/adapters/repository"
	"github.com/okian/bugathon/internal/domain/dailystats"
	"github.com/okian/bugathon/internal/domain/model"
	"github.com/okian/bugathon/internal/domain/scoring"
	"github.com/okian/bugathon/internal/domain/types"
	"github.com/okian/bugathon/pkg/logger"
)

// searchFields is the projection requested from the ticket source.
var searchFields = []string{
	"summary", "status", "reporter", "assignee",
	"created", "resolutiondate", "priority", "issuetype",
}

// TicketSource abstracts the external ticket query call.
type TicketSource interface {
	Search(ctx context.Context, query string, fields []string) ([]model.RawTicket, error)
}

// Service implements the sync engine and the read surfaces for the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	source TicketSource

	// Configuration
	query       string
	pointsField string
	statsDays   int
	interval    time.Duration

	// Single-flight gate for sync runs
	syncMu sync.Mutex

	// Clock, replaceable in tests
	now func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSource sets the ticket source client.
func WithSource(source TicketSource) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithQuery sets the search expression selecting event tickets.
func WithQuery(query string) Option {
	return func(s *Service) {
		if query != "" {
			s.query = query
		}
	}
}

// WithPointsField appends the sprint points custom field to the projection.
func WithPointsField(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.pointsField = name
		}
	}
}

// WithStatsDays sets how many recent daily rows the stats surface returns.
func WithStatsDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.statsDays = days
		}
	}
}

// WithSyncInterval enables the background sync loop. Zero disables it.
func WithSyncInterval(d time.Duration) Option {
	return func(s *Service) {
		s.interval = d
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		query:       `project = BUG ORDER BY created DESC`,
		pointsField: "customfield_10016",
		statsDays:   7,
		now:         time.Now,
		stopCh:      make(chan struct{}),
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates wiring and launches the scheduled sync loop when an
// interval is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil || s.source == nil {
		return ErrNotConfigured
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring engine",
		logger.String("query", s.query),
		logger.Duration("syncInterval", s.interval),
	)

	if s.interval > 0 {
		s.wg.Add(1)
		go s.runScheduler(ctx)
	}

	s.started = true
	return nil
}

// Stop shuts down the scheduler and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "scoring engine stopped")
}

// runScheduler triggers a sync every interval until Stop or ctx cancels.
// A failed scheduled run is logged and the loop continues.
func (s *Service) runScheduler(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.logger.Warn(ctx, "scheduled sync failed", logger.Error(err))
			}
		}
	}
}

// Leaderboard returns the top n users: total points descending, name
// ascending on ties, with dense ranks.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]types.Entry, error) {
	scores, err := s.store.Scores(ctx)
	if err != nil {
		return nil, err
	}

	ranked := scoring.Rank(scores)
	if n < len(ranked) {
		ranked = ranked[:n]
	}

	entries := make([]types.Entry, len(ranked))
	rank := 0
	var prevPoints float64
	for i, sc := range ranked {
		if i == 0 || sc.TotalPoints != prevPoints {
			rank++
			prevPoints = sc.TotalPoints
		}
		entries[i] = types.Entry{
			Rank:           rank,
			Name:           sc.Name,
			BugsReported:   sc.BugsReported,
			BugsFixed:      sc.BugsFixed,
			ReporterPoints: sc.ReporterPoints,
			AssigneePoints: sc.AssigneePoints,
			TotalPoints:    sc.TotalPoints,
			Badges:         sc.Badges,
		}
	}
	return entries, nil
}

// Stats returns the recent daily series plus team-wide totals.
func (s *Service) Stats(ctx context.Context) (types.CombinedStats, error) {
	today := dailystats.StartOfDay(s.now())
	from := today.AddDate(0, 0, -(s.statsDays - 1)).Format(dailystats.DateFormat)

	daily, err := s.store.DailyStatsSince(ctx, from)
	if err != nil {
		return types.CombinedStats{}, err
	}

	scores, err := s.store.Scores(ctx)
	if err != nil {
		return types.CombinedStats{}, err
	}

	out := types.CombinedStats{Daily: make([]types.DayStat, len(daily))}
	todayKey := today.Format(dailystats.DateFormat)
	for i, d := range daily {
		out.Daily[i] = types.DayStat{
			Date:         d.Date,
			BugsCreated:  d.BugsCreated,
			BugsFixed:    d.BugsFixed,
			PointsEarned: d.PointsEarned,
			ActiveUsers:  d.ActiveUsers,
		}
		if d.Date == todayKey {
			out.Totals.FixedToday = d.BugsFixed
		}
	}

	for _, sc := range scores {
		out.Totals.BugsFixed += sc.BugsFixed
		out.Totals.TotalPoints += sc.TotalPoints
	}
	out.Totals.Contributors = len(scores)
	return out, nil
}
