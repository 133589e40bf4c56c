// Package orders binds the gateway's order endpoints to typed functions. Each
// function is a single fixed method and path; errors from the client pass
// through unmodified.
package orders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"opsdash/internal/entity"
	"opsdash/internal/gateway"
)

// Service exposes the order endpoints of the upstream gateway.
type Service struct {
	client *gateway.Client
}

// New creates an order service on top of the shared gateway client.
func New(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List fetches all orders.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	if err := s.client.Get(ctx, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPaginated fetches one page of orders.
func (s *Service) ListPaginated(ctx context.Context, page, size int, sortBy, sortDir string) (*entity.Page[entity.Order], error) {
	var out entity.Page[entity.Order]
	if err := s.client.Get(ctx, "/orders/paginated", pageQuery(page, size, sortBy, sortDir), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByID fetches one order joined with its user. The join happens on the
// gateway; a missing user surfaces inside the composite, not as an error here.
func (s *Service) ByID(ctx context.Context, id int64) (*entity.OrderWithUser, error) {
	var out entity.OrderWithUser
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByUser fetches all orders belonging to one user.
func (s *Service) ByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	var out []entity.Order
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByUserPaginated fetches one page of a user's orders.
func (s *Service) ByUserPaginated(ctx context.Context, userID int64, page, size int, sortBy, sortDir string) (*entity.Page[entity.Order], error) {
	var out entity.Page[entity.Order]
	path := fmt.Sprintf("/orders/user/%d/paginated", userID)
	if err := s.client.Get(ctx, path, pageQuery(page, size, sortBy, sortDir), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByStatus fetches all orders in one lifecycle status.
func (s *Service) ByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	var out []entity.Order
	if err := s.client.Get(ctx, "/orders/status/"+string(status), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByStatusPaginated fetches one page of orders in one lifecycle status.
func (s *Service) ByStatusPaginated(ctx context.Context, status entity.OrderStatus, page, size int, sortBy, sortDir string) (*entity.Page[entity.Order], error) {
	var out entity.Page[entity.Order]
	path := "/orders/status/" + string(status) + "/paginated"
	if err := s.client.Get(ctx, path, pageQuery(page, size, sortBy, sortDir), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByProduct fetches orders whose product matches the given term.
func (s *Service) SearchByProduct(ctx context.Context, product string) ([]entity.Order, error) {
	q := url.Values{}
	q.Set("product", product)
	var out []entity.Order
	if err := s.client.Get(ctx, "/orders/search/product", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByPriceRange fetches orders whose price falls inside [minPrice, maxPrice].
func (s *Service) ByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]entity.Order, error) {
	q := url.Values{}
	q.Set("minPrice", strconv.FormatFloat(minPrice, 'f', -1, 64))
	q.Set("maxPrice", strconv.FormatFloat(maxPrice, 'f', -1, 64))
	var out []entity.Order
	if err := s.client.Get(ctx, "/orders/price-range", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByDateRange fetches orders created inside the given window. Dates are
// passed through verbatim in the gateway's expected format.
func (s *Service) ByDateRange(ctx context.Context, startDate, endDate string) ([]entity.Order, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	var out []entity.Order
	if err := s.client.Get(ctx, "/orders/date-range", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create creates an order. The gateway assigns the id.
func (s *Service) Create(ctx context.Context, req entity.CreateOrderRequest) (*entity.Order, error) {
	var out entity.Order
	if err := s.client.Post(ctx, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an order's fields.
func (s *Service) Update(ctx context.Context, id int64, req entity.UpdateOrderRequest) (*entity.Order, error) {
	var out entity.Order
	if err := s.client.Put(ctx, fmt.Sprintf("/orders/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/orders/%d", id))
}

// UpdateStatus advances one order's lifecycle status. The new status travels
// in the query string, matching the gateway's PATCH contract.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	q := url.Values{}
	q.Set("status", string(status))
	var out entity.Order
	if err := s.client.Patch(ctx, fmt.Sprintf("/orders/%d/status", id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithUsers fetches the bulk order+user composites for one page window.
func (s *Service) WithUsers(ctx context.Context, page, size int) ([]entity.OrderWithUser, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out []entity.OrderWithUser
	if err := s.client.Get(ctx, "/orders/with-users", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics fetches the server-computed order aggregates.
func (s *Service) Statistics(ctx context.Context) (*entity.OrderStatistics, error) {
	var out entity.OrderStatistics
	if err := s.client.Get(ctx, "/orders/statistics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserStatistics fetches one user's order aggregates.
func (s *Service) UserStatistics(ctx context.Context, userID int64) (*entity.UserOrderStatistics, error) {
	var out entity.UserOrderStatistics
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/user/%d/statistics", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(page, size int, sortBy, sortDir string) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if sortDir != "" {
		q.Set("sortDir", sortDir)
	}
	return q
}
