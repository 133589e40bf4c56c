// Package orders is the page controller behind the order management screen:
// pagination, status filter, and product search on top of cached reads, and
// the order mutations with their cache invalidation.
package orders

import (
	"context"
	"log/slog"
	"time"

	"opsdash/internal/entity"
	ordersvc "opsdash/internal/gateway/orders"
	"opsdash/internal/notify"
	"opsdash/internal/query"
	"opsdash/pkg/apierrors"
)

const searchMinLength = 2

// DefaultPageSize matches the table height of the rendered page.
const DefaultPageSize = 10

// FilterAll disables the status filter.
const FilterAll = "ALL"

// State is the page's load state derived from the cache's return shape.
type State string

const (
	StateLoaded State = "loaded"
	StateError  State = "error"
)

// View is the data the order page renders from. Exactly one of Page (list
// mode) or Results (search mode) is populated; the two are never merged.
type View struct {
	State      State                      `json:"state"`
	SearchMode bool                       `json:"searchMode"`
	SearchTerm string                     `json:"searchTerm,omitempty"`
	Filter     string                     `json:"filter"`
	Page       *entity.Page[entity.Order] `json:"page,omitempty"`
	Results    []entity.Order             `json:"results,omitempty"`
	Stale      bool                       `json:"stale,omitempty"`
	Error      string                     `json:"error,omitempty"`
	Notices    []notify.Notice            `json:"notices"`
}

// Controller composes cached reads and service writes for the order page.
type Controller struct {
	svc      *ordersvc.Service
	cache    *query.Cache
	feed     *notify.Feed
	logger   *slog.Logger
	pageSize int
}

// NewController wires the page controller over the shared cache.
func NewController(svc *ordersvc.Service, cache *query.Cache, feed *notify.Feed, logger *slog.Logger) *Controller {
	return &Controller{
		svc:      svc,
		cache:    cache,
		feed:     feed,
		logger:   logger,
		pageSize: DefaultPageSize,
	}
}

// Start keeps the first unfiltered list page warm by polling it on the given
// interval, so landing on the order page shows data without a loading state.
// Filtered and searched views stay lazy. Polling stops when ctx is cancelled.
func (c *Controller) Start(ctx context.Context, interval time.Duration) {
	query.Subscribe(ctx, c.cache, listKey(0, c.pageSize, FilterAll), interval, func(ctx context.Context) (*entity.Page[entity.Order], error) {
		return c.svc.ListPaginated(ctx, 0, c.pageSize, "createdAt", "desc")
	})
}

// View returns the current page data. A search term longer than two
// characters switches to product search exclusively; otherwise the paginated
// listing is shown, filtered by status unless the filter is ALL.
func (c *Controller) View(ctx context.Context, pageIdx int, filter, searchTerm string) View {
	view := View{Notices: c.feed.Active(), SearchTerm: searchTerm, Filter: filter}

	if len([]rune(searchTerm)) > searchMinLength {
		view.SearchMode = true
		res := query.Fetch(ctx, c.cache, searchKey(searchTerm), func(ctx context.Context) ([]entity.Order, error) {
			return c.svc.SearchByProduct(ctx, searchTerm)
		})
		return finishList(view, res)
	}

	res := query.Fetch(ctx, c.cache, listKey(pageIdx, c.pageSize, filter), func(ctx context.Context) (*entity.Page[entity.Order], error) {
		if filter == FilterAll || filter == "" {
			return c.svc.ListPaginated(ctx, pageIdx, c.pageSize, "createdAt", "desc")
		}
		return c.svc.ByStatusPaginated(ctx, entity.OrderStatus(filter), pageIdx, c.pageSize, "createdAt", "desc")
	})
	return finishPage(view, res)
}

// WouldLoad reports whether switching to the given parameters shows a loading
// state: only when the target key has never been cached.
func (c *Controller) WouldLoad(pageIdx int, filter, searchTerm string) bool {
	if len([]rune(searchTerm)) > searchMinLength {
		return !c.cache.Has(searchKey(searchTerm))
	}
	return !c.cache.Has(listKey(pageIdx, c.pageSize, filter))
}

// Detail fetches one order joined with its user. The composite is a
// transient view and is not cached as an entity.
func (c *Controller) Detail(ctx context.Context, id int64) (*entity.OrderWithUser, error) {
	composite, err := c.svc.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return composite, nil
}

// Create validates and creates an order, invalidating the order queries on
// success.
func (c *Controller) Create(ctx context.Context, req entity.CreateOrderRequest) (*entity.Order, error) {
	if err := req.Validate(); err != nil {
		c.feed.Error(err.Error())
		return nil, apierrors.Wrap(err, apierrors.CodeBadRequest, err.Error())
	}
	res := query.Mutate(ctx, c.cache, "order", func(ctx context.Context) (*entity.Order, error) {
		return c.svc.Create(ctx, req)
	}, "orders", "orders-search")
	return c.finishMutation(res, "Order created successfully")
}

// Update validates and updates an order.
func (c *Controller) Update(ctx context.Context, id int64, req entity.UpdateOrderRequest) (*entity.Order, error) {
	if err := req.Validate(); err != nil {
		c.feed.Error(err.Error())
		return nil, apierrors.Wrap(err, apierrors.CodeBadRequest, err.Error())
	}
	res := query.Mutate(ctx, c.cache, "order", func(ctx context.Context) (*entity.Order, error) {
		return c.svc.Update(ctx, id, req)
	}, "orders", "orders-search")
	return c.finishMutation(res, "Order updated successfully")
}

// Delete removes an order.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	res := query.Mutate(ctx, c.cache, "order", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.svc.Delete(ctx, id)
	}, "orders", "orders-search")
	if res.Err != nil {
		c.feed.Error(apierrors.Reduce(res.Err))
		return res.Err
	}
	c.feed.Success("Order deleted successfully")
	return nil
}

// SetStatus advances a single order's lifecycle status through the gateway.
// Other cached orders are refreshed via invalidation, never rewritten
// locally.
func (c *Controller) SetStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		err := apierrors.New(apierrors.CodeBadRequest, "unknown order status "+string(status))
		c.feed.Error(apierrors.Reduce(err))
		return nil, err
	}
	res := query.Mutate(ctx, c.cache, "order", func(ctx context.Context) (*entity.Order, error) {
		return c.svc.UpdateStatus(ctx, id, status)
	}, "orders", "orders-search")
	return c.finishMutation(res, "Order status updated successfully")
}

func (c *Controller) finishMutation(res query.MutationResult[*entity.Order], successMsg string) (*entity.Order, error) {
	if res.Err != nil {
		c.feed.Error(apierrors.Reduce(res.Err))
		return nil, res.Err
	}
	c.feed.Success(successMsg)
	return res.Value, nil
}

func finishPage(view View, res query.Result[*entity.Page[entity.Order]]) View {
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

func finishList(view View, res query.Result[[]entity.Order]) View {
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

func listKey(pageIdx, size int, filter string) string {
	if filter == "" {
		filter = FilterAll
	}
	return query.Key("orders", "paginated", filter, pageIdx, size)
}

func searchKey(term string) string {
	return query.Key("orders-search", term)
}
