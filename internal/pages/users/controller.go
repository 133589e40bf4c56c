// Package users is the page controller behind the user management screen:
// pagination and search state on top of cached reads, and the user mutations
// with their cache invalidation.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"opsdash/internal/entity"
	usersvc "opsdash/internal/gateway/users"
	"opsdash/internal/notify"
	"opsdash/internal/query"
	"opsdash/pkg/apierrors"
)

// searchMinLength is the exclusive threshold below which the search box is
// ignored and the paginated listing is shown.
const searchMinLength = 2

// DefaultPageSize matches the table height of the rendered page.
const DefaultPageSize = 10

// State is the page's load state derived from the cache's return shape.
type State string

const (
	StateLoaded State = "loaded"
	StateError  State = "error"
)

// View is the data the user page renders from. Exactly one of Page (list
// mode) or Results (search mode) is populated; the two are never merged.
type View struct {
	State      State                   `json:"state"`
	SearchMode bool                    `json:"searchMode"`
	SearchTerm string                  `json:"searchTerm,omitempty"`
	Page       *entity.Page[entity.User] `json:"page,omitempty"`
	Results    []entity.User           `json:"results,omitempty"`
	Stale      bool                    `json:"stale,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Notices    []notify.Notice         `json:"notices"`
}

// Controller composes cached reads and service writes for the user page.
type Controller struct {
	svc      *usersvc.Service
	cache    *query.Cache
	feed     *notify.Feed
	logger   *slog.Logger
	pageSize int
}

// NewController wires the page controller. The cache is shared with the other
// pages so cross-page invalidation works.
func NewController(svc *usersvc.Service, cache *query.Cache, feed *notify.Feed, logger *slog.Logger) *Controller {
	return &Controller{
		svc:      svc,
		cache:    cache,
		feed:     feed,
		logger:   logger,
		pageSize: DefaultPageSize,
	}
}

// Start keeps the first list page warm by polling it on the given interval,
// so landing on the user page shows data without a loading state and a
// mutation's invalidation refetches it immediately instead of on next view.
// Polling stops when ctx is cancelled.
func (c *Controller) Start(ctx context.Context, interval time.Duration) {
	query.Subscribe(ctx, c.cache, listKey(0, c.pageSize), interval, func(ctx context.Context) (*entity.Page[entity.User], error) {
		return c.svc.ListPaginated(ctx, 0, c.pageSize, "createdAt", "desc")
	})
}

// View returns the current page data. Search mode activates only when the
// term is longer than two characters; otherwise the paginated listing is
// shown, newest first.
func (c *Controller) View(ctx context.Context, pageIdx int, searchTerm string) View {
	view := View{Notices: c.feed.Active(), SearchTerm: searchTerm}

	if len([]rune(searchTerm)) > searchMinLength {
		view.SearchMode = true
		res := query.Fetch(ctx, c.cache, searchKey(searchTerm), func(ctx context.Context) ([]entity.User, error) {
			return c.svc.SearchByName(ctx, searchTerm)
		})
		return finishList(view, res)
	}

	res := query.Fetch(ctx, c.cache, listKey(pageIdx, c.pageSize), func(ctx context.Context) (*entity.Page[entity.User], error) {
		return c.svc.ListPaginated(ctx, pageIdx, c.pageSize, "createdAt", "desc")
	})
	return finishPage(view, res)
}

// WouldLoad reports whether switching to the given parameters shows a loading
// state: only when the target key has never been cached. A cached value is
// shown immediately and refreshed in the background instead.
func (c *Controller) WouldLoad(pageIdx int, searchTerm string) bool {
	if len([]rune(searchTerm)) > searchMinLength {
		return !c.cache.Has(searchKey(searchTerm))
	}
	return !c.cache.Has(listKey(pageIdx, c.pageSize))
}

// Create validates and creates a user, invalidating the user queries on
// success.
func (c *Controller) Create(ctx context.Context, req entity.CreateUserRequest) (*entity.User, error) {
	if err := req.Validate(); err != nil {
		c.feed.Error(err.Error())
		return nil, apierrors.Wrap(err, apierrors.CodeBadRequest, err.Error())
	}
	res := query.Mutate(ctx, c.cache, "user", func(ctx context.Context) (*entity.User, error) {
		return c.svc.Create(ctx, req)
	}, "users", "users-search")
	return c.finishMutation(res, "User created successfully")
}

// Update validates and updates a user.
func (c *Controller) Update(ctx context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error) {
	if err := req.Validate(); err != nil {
		c.feed.Error(err.Error())
		return nil, apierrors.Wrap(err, apierrors.CodeBadRequest, err.Error())
	}
	res := query.Mutate(ctx, c.cache, "user", func(ctx context.Context) (*entity.User, error) {
		return c.svc.Update(ctx, id, req)
	}, "users", "users-search")
	return c.finishMutation(res, "User updated successfully")
}

// Delete removes a user.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	res := query.Mutate(ctx, c.cache, "user", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.svc.Delete(ctx, id)
	}, "users", "users-search")
	if res.Err != nil {
		c.feed.Error(apierrors.Reduce(res.Err))
		return res.Err
	}
	c.feed.Success("User deleted successfully")
	return nil
}

// SetStatus runs one of the gateway's status transitions against a single
// user. Only the targeted id changes; every other cached user is refreshed
// from the server through invalidation, never rewritten locally.
func (c *Controller) SetStatus(ctx context.Context, id int64, action string) (*entity.User, error) {
	var fn func(context.Context) (*entity.User, error)
	switch action {
	case "activate":
		fn = func(ctx context.Context) (*entity.User, error) { return c.svc.Activate(ctx, id) }
	case "deactivate":
		fn = func(ctx context.Context) (*entity.User, error) { return c.svc.Deactivate(ctx, id) }
	case "suspend":
		fn = func(ctx context.Context) (*entity.User, error) { return c.svc.Suspend(ctx, id) }
	default:
		err := apierrors.New(apierrors.CodeBadRequest, fmt.Sprintf("unknown status action %q", action))
		c.feed.Error(apierrors.Reduce(err))
		return nil, err
	}

	res := query.Mutate(ctx, c.cache, "user", fn, "users", "users-search")
	return c.finishMutation(res, "User status updated successfully")
}

func (c *Controller) finishMutation(res query.MutationResult[*entity.User], successMsg string) (*entity.User, error) {
	if res.Err != nil {
		c.feed.Error(apierrors.Reduce(res.Err))
		return nil, res.Err
	}
	c.feed.Success(successMsg)
	return res.Value, nil
}

func finishPage(view View, res query.Result[*entity.Page[entity.User]]) View {
	if !res.OK {
		view.State = StateError
		view.Error = apierrors.Reduce(res.Err)
		return view
	}
	view.State = StateLoaded
	view.Page = res.Value
	view.Stale = res.Stale
	if res.Err != nil {
		view.Error = apierrors.Reduce(res.Err)
	}
	return view
}

func finishList(view View, res query.Result[[]entity.User]) View {
	if !res.OK {
		view.State = StateError
		view.Error = apierrors.Reduce(res.Err)
		return view
	}
	view.State = StateLoaded
	view.Results = res.Value
	view.Stale = res.Stale
	if res.Err != nil {
		view.Error = apierrors.Reduce(res.Err)
	}
	return view
}

func listKey(pageIdx, size int) string {
	return query.Key("users", "paginated", pageIdx, size)
}

func searchKey(term string) string {
	return query.Key("users-search", term)
}
