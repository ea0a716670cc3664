package service

import (
	"context"
	"errors"
	"strings"

	repository "github.com/okian/bugathon/internal/adapters/repository"
	"github.com/okian/bugathon/internal/domain/model"
	"github.com/okian/bugathon/internal/domain/scoring"
	"github.com/okian/bugathon/pkg/logger"
	"github.com/okian/bugathon/pkg/metrics"
)

// Champion achievement granted to the current leaderboard leader.
const (
	championBadgeName   = "🏆 Current Champion"
	championDescription = "Reached first place on the leaderboard"
)

// checkAchievements detects achievement-worthy states in the freshly
// computed scores and grants them idempotently. Current scope: the
// top-ranked user gets the champion achievement.
func (s *Service) checkAchievements(ctx context.Context, scores []model.UserScore) error {
	ranked := scoring.Rank(scores)
	if len(ranked) == 0 {
		return nil
	}
	return s.grant(ctx, ranked[0].Name, championBadgeName, championDescription)
}

// grant inserts the (user, badge) row unless it already exists. Re-granting
// is a no-op: the stored row, including its EarnedAt, is never touched.
func (s *Service) grant(ctx context.Context, userName, badgeName, description string) error {
	_, err := s.store.Achievement(ctx, userName, badgeName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	a := model.Achievement{
		UserName:    userName,
		BadgeName:   badgeName,
		BadgeIcon:   badgeIcon(badgeName),
		Description: description,
		EarnedAt:    s.now(),
	}
	if err := s.store.InsertAchievement(ctx, a); err != nil {
		return err
	}

	metrics.RecordAchievementGranted()
	s.logger.Info(ctx, "achievement granted",
		logger.String("user", userName),
		logger.String("badge", badgeName),
	)
	return nil
}

// badgeIcon is the leading whitespace-delimited token of the badge name.
func badgeIcon(badgeName string) string {
	fields := strings.Fields(badgeName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
