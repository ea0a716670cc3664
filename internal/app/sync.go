package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bugathon/internal/domain/dailystats"
	"github.com/okian/bugathon/internal/domain/normalize"
	"github.com/okian/bugathon/internal/domain/scoring"
	"github.com/okian/bugathon/internal/domain/types"
	"github.com/okian/bugathon/pkg/logger"
	"github.com/okian/bugathon/pkg/metrics"
)

// Pipeline steps, in execution order. A run moves linearly through them;
// the first failure short-circuits the rest.
const (
	stepFetching             = "fetching"
	stepNormalizing          = "normalizing"
	stepScoringUsers         = "scoring_users"
	stepAggregatingDaily     = "aggregating_daily"
	stepCheckingAchievements = "checking_achievements"
	stepDone                 = "done"
)

// Sync runs one full ingestion-and-scoring pass: fetch the ticket set,
// normalize and upsert it, rebuild user scores from the persisted
// snapshot, recompute today's counters, and evaluate achievements. Steps
// run strictly in sequence with no retries; whatever an earlier step
// committed stays committed when a later step fails.
//
// Only one run may be in flight; concurrent triggers get ErrSyncInFlight.
func (s *Service) Sync(ctx context.Context) (types.SyncResult, error) {
	if !s.syncMu.TryLock() {
		return types.SyncResult{}, ErrSyncInFlight
	}
	defer s.syncMu.Unlock()

	runID := uuid.NewString()
	started := s.now()
	log := s.logger.Named("sync")
	log.Info(ctx, "sync started", logger.String("runID", runID))

	fail := func(step string, err error) (types.SyncResult, error) {
		metrics.RecordSyncStepFailure(step)
		metrics.RecordSyncRun("failure")
		log.Error(ctx, "sync failed",
			logger.String("runID", runID),
			logger.String("step", step),
			logger.Error(err),
		)
		return types.SyncResult{}, fmt.Errorf("%s: %w", step, err)
	}

	// Fetching
	raw, err := s.source.Search(ctx, s.query, append(searchFields, s.pointsField))
	if err != nil {
		return fail(stepFetching, err)
	}

	// Normalizing: derive persisted rows and upsert the batch wholesale.
	batch := normalize.Batch(raw, s.now())
	if err := s.observeStore("upsert_tickets", func() error {
		return s.store.UpsertTickets(ctx, batch)
	}); err != nil {
		return fail(stepNormalizing, err)
	}

	// ScoringUsers: re-read the persisted set so accumulated history, not
	// just this batch, feeds the fold.
	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return fail(stepScoringUsers, err)
	}
	scores := scoring.Aggregate(tickets, s.now())
	if err := s.observeStore("upsert_scores", func() error {
		return s.store.UpsertScores(ctx, scores)
	}); err != nil {
		return fail(stepScoringUsers, err)
	}

	// AggregatingDaily: two independent filtered reads for today's row.
	day := dailystats.StartOfDay(s.now())
	createdToday, err := s.store.TicketsCreatedSince(ctx, day)
	if err != nil {
		return fail(stepAggregatingDaily, err)
	}
	fixedToday, err := s.store.TicketsResolvedSince(ctx, day)
	if err != nil {
		return fail(stepAggregatingDaily, err)
	}
	stat := dailystats.Aggregate(day, createdToday, fixedToday)
	if err := s.observeStore("upsert_daily_stat", func() error {
		return s.store.UpsertDailyStat(ctx, stat)
	}); err != nil {
		return fail(stepAggregatingDaily, err)
	}

	// CheckingAchievements
	if err := s.checkAchievements(ctx, scores); err != nil {
		return fail(stepCheckingAchievements, err)
	}

	elapsed := time.Since(started)
	metrics.RecordSyncRun("success")
	metrics.RecordSyncDuration(elapsed.Seconds())
	metrics.RecordTicketsProcessed(len(batch))
	metrics.UpdateTicketsTracked(len(tickets))
	metrics.UpdateUsersTracked(len(scores))
	metrics.UpdateLastSync(float64(s.now().Unix()))

	log.Info(ctx, "sync finished",
		logger.String("runID", runID),
		logger.String("step", stepDone),
		logger.Int("ticketsProcessed", len(batch)),
		logger.Int("usersScored", len(scores)),
		logger.Duration("took", elapsed),
	)
	return types.SyncResult{RunID: runID, TicketsProcessed: len(batch)}, nil
}

// observeStore times one store call for the store latency histogram.
func (s *Service) observeStore(operation string, call func() error) error {
	start := time.Now()
	err := call()
	metrics.RecordStoreOperation(operation, time.Since(start).Seconds())
	return err
}
