package httptransport

import (
	"encoding/json"
	"net/http"

	"opsdash/internal/entity"
	"opsdash/internal/pages/orders"
	"opsdash/internal/platform/middleware"
	"opsdash/internal/transport/httputil"
	"opsdash/pkg/apierrors"
)

// HandleOrdersPage renders the order management page: the paginated listing
// under the active status filter, or product search results.
func (h *Handler) HandleOrdersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePage(r)
	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = orders.FilterAll
	}
	search := r.URL.Query().Get("search")

	view := h.orders.View(ctx, page, filter, search)
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleOrderDetail renders one order joined with its user.
func (h *Handler) HandleOrderDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := h.orders.Detail(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "order detail failed",
			"error", err,
			"order_id", id,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detail)
}

// HandleCreateOrder creates an order through the gateway and invalidates the
// cached order queries.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req entity.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeBadRequest, "invalid request body"))
		return
	}

	order, err := h.orders.Create(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create order failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, order)
}

// HandleUpdateOrder updates an order by id.
func (h *Handler) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req entity.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeBadRequest, "invalid request body"))
		return
	}

	order, err := h.orders.Update(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update order failed",
			"error", err,
			"order_id", id,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, order)
}

// HandleDeleteOrder deletes an order by id.
func (h *Handler) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.orders.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete order failed",
			"error", err,
			"order_id", id,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleOrderStatus advances an order's lifecycle status. The target status
// comes from the query string, mirroring the gateway's own endpoint shape.
func (h *Handler) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := entity.OrderStatus(r.URL.Query().Get("status"))

	order, err := h.orders.SetStatus(ctx, id, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "order status transition failed",
			"error", err,
			"order_id", id,
			"status", string(status),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, order)
}
