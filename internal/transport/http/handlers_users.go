package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"opsdash/internal/entity"
	"opsdash/internal/platform/middleware"
	"opsdash/internal/transport/httputil"
	"opsdash/pkg/apierrors"
)

// HandleUsersPage renders the user management page: either the paginated
// listing or search results, depending on the search term length.
func (h *Handler) HandleUsersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePage(r)
	search := r.URL.Query().Get("search")

	view := h.users.View(ctx, page, search)
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleCreateUser creates a user through the gateway and invalidates the
// cached user queries.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req entity.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Create(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create user failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleUpdateUser updates a user by id.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req entity.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Update(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update user failed",
			"error", err,
			"user_id", id,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// HandleDeleteUser deletes a user by id.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.users.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete user failed",
			"error", err,
			"user_id", id,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUserStatus runs one of the status transitions (activate, deactivate,
// suspend) against a single user.
func (h *Handler) HandleUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	action := chi.URLParam(r, "action")

	user, err := h.users.SetStatus(ctx, id, action)
	if err != nil {
		h.logger.ErrorContext(ctx, "user status transition failed",
			"error", err,
			"user_id", id,
			"action", action,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// parsePage reads the zero-based page index, defaulting to the first page.
func parsePage(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 0 {
			return page
		}
	}
	return 0
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierrors.New(apierrors.CodeBadRequest, "invalid id "+strconv.Quote(raw))
	}
	return id, nil
}
