// Package httptransport is the thin HTTP layer over the page controllers. It
// parses request parameters, delegates, and renders view models as JSON so
// transport concerns stay isolated from page logic.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opsdash/internal/pages/orders"
	"opsdash/internal/pages/overview"
	"opsdash/internal/pages/users"
	"opsdash/internal/platform/health"
	"opsdash/internal/platform/middleware"
)

// Handler delegates to the page controllers without embedding page logic.
type Handler struct {
	overview *overview.Controller
	users    *users.Controller
	orders   *orders.Controller
	logger   *slog.Logger
}

func NewHandler(ov *overview.Controller, us *users.Controller, or *orders.Controller, logger *slog.Logger) *Handler {
	return &Handler{
		overview: ov,
		users:    us,
		orders:   or,
		logger:   logger,
	}
}

// NewRouter wires all endpoints with middleware. The prometheus registry is
// the one the gateway client and cache report into.
func NewRouter(h *Handler, healthHandler *health.Handler, registry *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// Dashboard landing screen
	r.Get("/dashboard", h.HandleDashboard)

	// User management page
	r.Get("/users", h.HandleUsersPage)
	r.Post("/users", h.HandleCreateUser)
	r.Put("/users/{id}", h.HandleUpdateUser)
	r.Delete("/users/{id}", h.HandleDeleteUser)
	r.Patch("/users/{id}/{action}", h.HandleUserStatus)

	// Order management page
	r.Get("/orders", h.HandleOrdersPage)
	r.Get("/orders/{id}", h.HandleOrderDetail)
	r.Post("/orders", h.HandleCreateOrder)
	r.Put("/orders/{id}", h.HandleUpdateOrder)
	r.Delete("/orders/{id}", h.HandleDeleteOrder)
	r.Patch("/orders/{id}/status", h.HandleOrderStatus)

	healthHandler.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
