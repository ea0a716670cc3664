// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TrackerBaseURL is the ticket source root, e.g. "https://example.atlassian.net".
	TrackerBaseURL string `koanf:"tracker_base_url"`

	// TrackerToken authenticates as a bearer credential. When empty,
	// TrackerUser/TrackerSecret are sent as basic credentials.
	TrackerToken  string `koanf:"tracker_token"`
	TrackerUser   string `koanf:"tracker_user"`
	TrackerSecret string `koanf:"tracker_secret"`

	// TrackerQuery is the search expression selecting event tickets.
	TrackerQuery string `koanf:"tracker_query"`

	// TrackerPointsField is the custom field key carrying sprint points.
	TrackerPointsField string `koanf:"tracker_points_field"`

	// TrackerPageSize caps results per search call; larger sets truncate.
	TrackerPageSize int `koanf:"tracker_page_size"`

	// StoreDriver selects the persistence backend: "sqlite" or "memory".
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the SQLite database file location.
	StorePath string `koanf:"store_path"`

	// SyncIntervalSec is the period of the background sync loop; 0
	// disables scheduled syncs (manual trigger only).
	SyncIntervalSec int `koanf:"sync_interval_sec"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// StatsDays is how many recent daily rows the stats surface returns.
	StatsDays int `koanf:"stats_days"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		TrackerQuery:        `project = BUG ORDER BY created DESC`,
		TrackerPointsField:  "customfield_10016",
		TrackerPageSize:     500,
		StoreDriver:         "sqlite",
		StorePath:           "bugathon.db",
		SyncIntervalSec:     300,
		MaxLeaderboardLimit: 100,
		StatsDays:           7,
	}
}
