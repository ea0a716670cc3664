// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/bugathon/internal/adapters/tracker"
	service "github.com/okian/bugathon/internal/app"
	"github.com/okian/bugathon/internal/domain/types"
)

// SyncDependencies defines the interface for triggering a sync run.
type SyncDependencies interface {
	Sync(ctx context.Context) (types.SyncResult, error)
}

// SyncHandler handles manual sync triggers.
type SyncHandler struct {
	deps SyncDependencies
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(deps SyncDependencies) *SyncHandler {
	return &SyncHandler{deps: deps}
}

// HandlePostSync handles POST /sync requests. The run executes inline;
// callers get the processed-ticket count on success, 409 when a run is
// already in flight, 502 when the ticket source fails, 500 otherwise.
func (h *SyncHandler) HandlePostSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.deps.Sync(r.Context())
	switch {
	case errors.Is(err, service.ErrSyncInFlight):
		writeError(w, http.StatusConflict, "sync_in_flight", err)
	case errors.Is(err, tracker.ErrTransport):
		writeError(w, http.StatusBadGateway, "ticket_source_unavailable", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	default:
		writeJSON(w, http.StatusAccepted, result)
	}
}
