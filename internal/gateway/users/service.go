// Package users binds the gateway's user endpoints to typed functions. Each
// function is a single fixed method and path; errors from the client pass
// through unmodified.
package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"opsdash/internal/entity"
	"opsdash/internal/gateway"
)

// Service exposes the user endpoints of the upstream gateway.
type Service struct {
	client *gateway.Client
}

// New creates a user service on top of the shared gateway client.
func New(client *gateway.Client) *Service {
	return &Service{client: client}
}

// List fetches all users.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	if err := s.client.Get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPaginated fetches one page of users.
func (s *Service) ListPaginated(ctx context.Context, page, size int, sortBy, sortDir string) (*entity.Page[entity.User], error) {
	var out entity.Page[entity.User]
	if err := s.client.Get(ctx, "/users/paginated", pageQuery(page, size, sortBy, sortDir), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByID fetches a single user.
func (s *Service) ByID(ctx context.Context, id int64) (*entity.User, error) {
	var out entity.User
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByEmail fetches a single user by email address.
func (s *Service) ByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out entity.User
	if err := s.client.Get(ctx, "/users/email/"+url.PathEscape(email), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByName fetches users whose name matches the given term.
func (s *Service) SearchByName(ctx context.Context, name string) ([]entity.User, error) {
	q := url.Values{}
	q.Set("name", name)
	var out []entity.User
	if err := s.client.Get(ctx, "/users/search/name", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchAdvanced runs the gateway's multi-field search with pagination.
func (s *Service) SearchAdvanced(ctx context.Context, term string, page, size int, sortBy, sortDir string) (*entity.Page[entity.User], error) {
	q := pageQuery(page, size, sortBy, sortDir)
	q.Set("searchTerm", term)
	var out entity.Page[entity.User]
	if err := s.client.Get(ctx, "/users/search/advanced", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates a user. The gateway assigns the id.
func (s *Service) Create(ctx context.Context, req entity.CreateUserRequest) (*entity.User, error) {
	var out entity.User
	if err := s.client.Post(ctx, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a user's profile fields.
func (s *Service) Update(ctx context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error) {
	var out entity.User
	if err := s.client.Put(ctx, fmt.Sprintf("/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/users/%d", id))
}

// Activate transitions the user to ACTIVE.
func (s *Service) Activate(ctx context.Context, id int64) (*entity.User, error) {
	return s.transition(ctx, id, "activate")
}

// Deactivate transitions the user to INACTIVE.
func (s *Service) Deactivate(ctx context.Context, id int64) (*entity.User, error) {
	return s.transition(ctx, id, "deactivate")
}

// Suspend transitions the user to SUSPENDED.
func (s *Service) Suspend(ctx context.Context, id int64) (*entity.User, error) {
	return s.transition(ctx, id, "suspend")
}

func (s *Service) transition(ctx context.Context, id int64, action string) (*entity.User, error) {
	var out entity.User
	if err := s.client.Patch(ctx, fmt.Sprintf("/users/%d/%s", id, action), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics fetches the server-computed user aggregates.
func (s *Service) Statistics(ctx context.Context) (*entity.UserStatistics, error) {
	var out entity.UserStatistics
	if err := s.client.Get(ctx, "/users/statistics", nil, &out); err != nil {
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
