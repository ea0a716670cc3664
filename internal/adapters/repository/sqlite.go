package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/bugathon/internal/domain/model"

	_ "modernc.org/sqlite" // sqlite driver (pure Go)
)

// Default connection settings.
const (
	defaultBusyTimeout = 5 * time.Second
	pingTimeout        = 3 * time.Second
)

// SQLiteStore implements Store on a local SQLite database, one table per
// collection.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

// Open opens (or creates) the database at path, applies the schema, and
// verifies connectivity.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStore, path, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrStore, path, err)
	}

	s.db = db
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// init applies the schema. Idempotent.
func (s *SQLiteStore) init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + CollectionTickets + ` (
			key TEXT PRIMARY KEY,
			summary TEXT NOT NULL,
			status TEXT NOT NULL,
			status_category TEXT NOT NULL,
			reporter_id TEXT NOT NULL,
			reporter_name TEXT NOT NULL,
			assignee_id TEXT NOT NULL,
			assignee_name TEXT NOT NULL,
			sprint_points REAL NOT NULL,
			is_new_bug INTEGER NOT NULL,
			reporter_points REAL NOT NULL,
			assignee_points REAL NOT NULL,
			created TIMESTAMP NOT NULL,
			resolved TIMESTAMP,
			priority TEXT NOT NULL,
			issue_type TEXT NOT NULL,
			last_updated TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_created ON ` + CollectionTickets + `(created);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_resolved ON ` + CollectionTickets + `(status_category, resolved);`,
		`CREATE TABLE IF NOT EXISTS ` + CollectionUserScores + ` (
			name TEXT PRIMARY KEY,
			bugs_reported INTEGER NOT NULL,
			bugs_fixed INTEGER NOT NULL,
			reporter_points REAL NOT NULL,
			assignee_points REAL NOT NULL,
			total_points REAL NOT NULL,
			badges TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ` + CollectionDailyStats + ` (
			date TEXT PRIMARY KEY,
			bugs_created INTEGER NOT NULL,
			bugs_fixed INTEGER NOT NULL,
			points_earned REAL NOT NULL,
			active_users INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ` + CollectionAchievements + ` (
			user_name TEXT NOT NULL,
			badge_name TEXT NOT NULL,
			badge_icon TEXT NOT NULL,
			description TEXT NOT NULL,
			earned_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_name, badge_name)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: apply schema: %v", ErrStore, err)
		}
	}
	return nil
}

// UpsertTickets bulk-writes the batch inside one transaction so a rejected
// batch leaves no partial rows behind.
func (s *SQLiteStore) UpsertTickets(ctx context.Context, tickets []model.Ticket) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin ticket upsert: %v", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO ` + CollectionTickets + ` (
			key, summary, status, status_category,
			reporter_id, reporter_name, assignee_id, assignee_name,
			sprint_points, is_new_bug, reporter_points, assignee_points,
			created, resolved, priority, issue_type, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			summary = excluded.summary,
			status = excluded.status,
			status_category = excluded.status_category,
			reporter_id = excluded.reporter_id,
			reporter_name = excluded.reporter_name,
			assignee_id = excluded.assignee_id,
			assignee_name = excluded.assignee_name,
			sprint_points = excluded.sprint_points,
			is_new_bug = excluded.is_new_bug,
			reporter_points = excluded.reporter_points,
			assignee_points = excluded.assignee_points,
			created = excluded.created,
			resolved = excluded.resolved,
			priority = excluded.priority,
			issue_type = excluded.issue_type,
			last_updated = excluded.last_updated`

	for _, t := range tickets {
		var resolved sql.NullTime
		if t.Resolved != nil {
			resolved = sql.NullTime{Time: t.Resolved.UTC(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, q,
			t.Key, t.Summary, t.Status, t.StatusCategory,
			t.Reporter.ID, t.Reporter.Name, t.Assignee.ID, t.Assignee.Name,
			t.SprintPoints, t.IsNewBug, t.ReporterPoints, t.AssigneePoints,
			t.Created.UTC(), resolved, t.Priority, t.IssueType, t.LastUpdated.UTC(),
		); err != nil {
			return fmt.Errorf("%w: upsert ticket %s: %v", ErrStore, t.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit ticket upsert: %v", ErrStore, err)
	}
	return nil
}

const ticketColumns = `key, summary, status, status_category,
	reporter_id, reporter_name, assignee_id, assignee_name,
	sprint_points, is_new_bug, reporter_points, assignee_points,
	created, resolved, priority, issue_type, last_updated`

func (s *SQLiteStore) queryTickets(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tickets: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		var resolved sql.NullTime
		if err := rows.Scan(
			&t.Key, &t.Summary, &t.Status, &t.StatusCategory,
			&t.Reporter.ID, &t.Reporter.Name, &t.Assignee.ID, &t.Assignee.Name,
			&t.SprintPoints, &t.IsNewBug, &t.ReporterPoints, &t.AssigneePoints,
			&t.Created, &resolved, &t.Priority, &t.IssueType, &t.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("%w: scan ticket: %v", ErrStore, err)
		}
		if resolved.Valid {
			r := resolved.Time
			t.Resolved = &r
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tickets: %v", ErrStore, err)
	}
	return out, nil
}

// Tickets returns the complete current ticket set.
func (s *SQLiteStore) Tickets(ctx context.Context) ([]model.Ticket, error) {
	return s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM `+CollectionTickets)
}

// TicketsCreatedSince returns tickets created at or after the cutoff.
func (s *SQLiteStore) TicketsCreatedSince(ctx context.Context, cutoff time.Time) ([]model.Ticket, error) {
	return s.queryTickets(ctx,
		`SELECT `+ticketColumns+` FROM `+CollectionTickets+` WHERE created >= ?`,
		cutoff.UTC())
}

// TicketsResolvedSince returns done-category tickets resolved at or after
// the cutoff.
func (s *SQLiteStore) TicketsResolvedSince(ctx context.Context, cutoff time.Time) ([]model.Ticket, error) {
	return s.queryTickets(ctx,
		`SELECT `+ticketColumns+` FROM `+CollectionTickets+
			` WHERE status_category = ? AND resolved IS NOT NULL AND resolved >= ?`,
		model.StatusCategoryDone, cutoff.UTC())
}

// UpsertScores replaces each user's row wholesale.
func (s *SQLiteStore) UpsertScores(ctx context.Context, scores []model.UserScore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin score upsert: %v", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO ` + CollectionUserScores + ` (
			name, bugs_reported, bugs_fixed, reporter_points,
			assignee_points, total_points, badges, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			bugs_reported = excluded.bugs_reported,
			bugs_fixed = excluded.bugs_fixed,
			reporter_points = excluded.reporter_points,
			assignee_points = excluded.assignee_points,
			total_points = excluded.total_points,
			badges = excluded.badges,
			updated_at = excluded.updated_at`

	for _, sc := range scores {
		badgesJSON, err := json.Marshal(sc.Badges)
		if err != nil {
			return fmt.Errorf("%w: encode badges for %s: %v", ErrStore, sc.Name, err)
		}
		if _, err := tx.ExecContext(ctx, q,
			sc.Name, sc.BugsReported, sc.BugsFixed, sc.ReporterPoints,
			sc.AssigneePoints, sc.TotalPoints, string(badgesJSON), sc.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("%w: upsert score %s: %v", ErrStore, sc.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit score upsert: %v", ErrStore, err)
	}
	return nil
}

// Scores returns all user standings.
func (s *SQLiteStore) Scores(ctx context.Context) ([]model.UserScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, bugs_reported, bugs_fixed, reporter_points,
			assignee_points, total_points, badges, updated_at
		FROM `+CollectionUserScores)
	if err != nil {
		return nil, fmt.Errorf("%w: query scores: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []model.UserScore
	for rows.Next() {
		var sc model.UserScore
		var badgesJSON string
		if err := rows.Scan(
			&sc.Name, &sc.BugsReported, &sc.BugsFixed, &sc.ReporterPoints,
			&sc.AssigneePoints, &sc.TotalPoints, &badgesJSON, &sc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan score: %v", ErrStore, err)
		}
		if err := json.Unmarshal([]byte(badgesJSON), &sc.Badges); err != nil {
			return nil, fmt.Errorf("%w: decode badges for %s: %v", ErrStore, sc.Name, err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate scores: %v", ErrStore, err)
	}
	return out, nil
}

// UpsertDailyStat replaces the row for stat.Date.
func (s *SQLiteStore) UpsertDailyStat(ctx context.Context, stat model.DailyStat) error {
	const q = `INSERT INTO ` + CollectionDailyStats + ` (
			date, bugs_created, bugs_fixed, points_earned, active_users
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			bugs_created = excluded.bugs_created,
			bugs_fixed = excluded.bugs_fixed,
			points_earned = excluded.points_earned,
			active_users = excluded.active_users`
	if _, err := s.db.ExecContext(ctx, q,
		stat.Date, stat.BugsCreated, stat.BugsFixed, stat.PointsEarned, stat.ActiveUsers,
	); err != nil {
		return fmt.Errorf("%w: upsert daily stat %s: %v", ErrStore, stat.Date, err)
	}
	return nil
}

// DailyStatsSince returns rows with date >= fromDate, newest first.
func (s *SQLiteStore) DailyStatsSince(ctx context.Context, fromDate string) ([]model.DailyStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, bugs_created, bugs_fixed, points_earned, active_users
		FROM `+CollectionDailyStats+` WHERE date >= ? ORDER BY date DESC`,
		fromDate)
	if err != nil {
		return nil, fmt.Errorf("%w: query daily stats: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []model.DailyStat
	for rows.Next() {
		var st model.DailyStat
		if err := rows.Scan(&st.Date, &st.BugsCreated, &st.BugsFixed, &st.PointsEarned, &st.ActiveUsers); err != nil {
			return nil, fmt.Errorf("%w: scan daily stat: %v", ErrStore, err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate daily stats: %v", ErrStore, err)
	}
	return out, nil
}

// Achievement returns the existing grant or ErrNotFound.
func (s *SQLiteStore) Achievement(ctx context.Context, userName, badgeName string) (model.Achievement, error) {
	var a model.Achievement
	err := s.db.QueryRowContext(ctx,
		`SELECT user_name, badge_name, badge_icon, description, earned_at
		FROM `+CollectionAchievements+` WHERE user_name = ? AND badge_name = ?`,
		userName, badgeName,
	).Scan(&a.UserName, &a.BadgeName, &a.BadgeIcon, &a.Description, &a.EarnedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Achievement{}, ErrNotFound
	}
	if err != nil {
		return model.Achievement{}, fmt.Errorf("%w: query achievement: %v", ErrStore, err)
	}
	return a, nil
}

// InsertAchievement adds a new grant row.
func (s *SQLiteStore) InsertAchievement(ctx context.Context, a model.Achievement) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO `+CollectionAchievements+` (user_name, badge_name, badge_icon, description, earned_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.UserName, a.BadgeName, a.BadgeIcon, a.Description, a.EarnedAt.UTC(),
	); err != nil {
		return fmt.Errorf("%w: insert achievement %s/%s: %v", ErrStore, a.UserName, a.BadgeName, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close database: %v", ErrStore, err)
	}
	return nil
}
