// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/bugathon/internal/domain/types"
)

// StatsDependencies defines the interface for combined stats reads.
type StatsDependencies interface {
	Stats(ctx context.Context) (types.CombinedStats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps StatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleGetStats handles GET /stats requests: the recent daily series plus
// team-wide totals.
func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	if stats.Daily == nil {
		stats.Daily = []types.DayStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}
