package httptransport

import (
	"net/http"

	"opsdash/internal/platform/middleware"
	"opsdash/internal/transport/httputil"
)

// HandleDashboard renders the landing screen aggregates. The controller
// tolerates partial upstream failures, so this always answers 200 with
// whatever sections loaded.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view := h.overview.View(ctx)
	if view.Error != "" {
		h.logger.WarnContext(ctx, "dashboard rendered with degraded sections",
			"error", view.Error,
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}
