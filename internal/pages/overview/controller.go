// Package overview is the page controller behind the dashboard landing
// screen: entity totals, server-computed aggregates, and recent activity,
// kept warm by background polling.
package overview

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"opsdash/internal/entity"
	ordersvc "opsdash/internal/gateway/orders"
	usersvc "opsdash/internal/gateway/users"
	"opsdash/internal/query"
	"opsdash/pkg/apierrors"
)

// recentLimit caps the activity feed on the landing screen.
const recentLimit = 5

// View is the data the dashboard landing screen renders from. Missing
// sections stay nil when their fetch failed; Error carries the reduced
// message of the first failure.
type View struct {
	UserStats   *entity.UserStatistics  `json:"userStats,omitempty"`
	OrderStats  *entity.OrderStatistics `json:"orderStats,omitempty"`
	TotalUsers  int                     `json:"totalUsers"`
	TotalOrders int                     `json:"totalOrders"`
	RecentUsers []entity.User           `json:"recentUsers"`
	RecentOrders []entity.Order         `json:"recentOrders"`
	Error       string                  `json:"error,omitempty"`
}

// Controller assembles the dashboard aggregates.
type Controller struct {
	users  *usersvc.Service
	orders *ordersvc.Service
	cache  *query.Cache
	logger *slog.Logger
}

// NewController wires the overview controller over the shared cache.
func NewController(users *usersvc.Service, orders *ordersvc.Service, cache *query.Cache, logger *slog.Logger) *Controller {
	return &Controller{
		users:  users,
		orders: orders,
		cache:  cache,
		logger: logger,
	}
}

// Start begins background polling of the dashboard's lists so the landing
// screen always has warm data. Polling stops when ctx is cancelled.
func (c *Controller) Start(ctx context.Context, interval time.Duration) {
	query.Subscribe(ctx, c.cache, query.Key("dashboard", "users"), interval, func(ctx context.Context) ([]entity.User, error) {
		return c.users.List(ctx)
	})
	query.Subscribe(ctx, c.cache, query.Key("dashboard", "orders"), interval, func(ctx context.Context) ([]entity.Order, error) {
		return c.orders.List(ctx)
	})
}

// View assembles the landing screen data. The two statistics aggregates are
// independent and fetched in parallel; one failing leaves the other's
// section intact.
func (c *Controller) View(ctx context.Context) View {
	var view View

	var userStats query.Result[*entity.UserStatistics]
	var orderStats query.Result[*entity.OrderStatistics]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userStats = query.Fetch(gctx, c.cache, query.Key("stats", "users"), func(ctx context.Context) (*entity.UserStatistics, error) {
			return c.users.Statistics(ctx)
		})
		return nil
	})
	g.Go(func() error {
		orderStats = query.Fetch(gctx, c.cache, query.Key("stats", "orders"), func(ctx context.Context) (*entity.OrderStatistics, error) {
			return c.orders.Statistics(ctx)
		})
		return nil
	})
	_ = g.Wait()

	if userStats.OK {
		view.UserStats = userStats.Value
	}
	if orderStats.OK {
		view.OrderStats = orderStats.Value
	}
	for _, res := range []error{userStats.Err, orderStats.Err} {
		if res != nil && view.Error == "" {
			view.Error = apierrors.Reduce(res)
		}
	}

	users := query.Fetch(ctx, c.cache, query.Key("dashboard", "users"), func(ctx context.Context) ([]entity.User, error) {
		return c.users.List(ctx)
	})
	if users.OK {
		view.TotalUsers = len(users.Value)
		view.RecentUsers = head(users.Value, recentLimit)
	}

	orders := query.Fetch(ctx, c.cache, query.Key("dashboard", "orders"), func(ctx context.Context) ([]entity.Order, error) {
		return c.orders.List(ctx)
	})
	if orders.OK {
		view.TotalOrders = len(orders.Value)
		view.RecentOrders = head(orders.Value, recentLimit)
	}

	return view
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
