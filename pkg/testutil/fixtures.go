package testutil

import (
	"fmt"
	"time"

	"opsdash/internal/entity"
)

var fixtureTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// NewUser builds a deterministic user fixture.
func NewUser(id int64) entity.User {
	return entity.User{
		ID:        id,
		Name:      fmt.Sprintf("User %d", id),
		Email:     fmt.Sprintf("user%d@example.com", id),
		Status:    entity.UserActive,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}

// NewOrder builds a deterministic order fixture owned by userID.
func NewOrder(id, userID int64) entity.Order {
	return entity.Order{
		ID:        id,
		UserID:    userID,
		Product:   fmt.Sprintf("Product %d", id),
		Price:     float64(id) * 10,
		Quantity:  1,
		Status:    entity.OrderPending,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}

// NewUserPage wraps users into a consistent pagination envelope.
func NewUserPage(pageNumber, pageSize, totalPages int, users ...entity.User) entity.Page[entity.User] {
	return newPage(pageNumber, pageSize, totalPages, users)
}

// NewOrderPage wraps orders into a consistent pagination envelope.
func NewOrderPage(pageNumber, pageSize, totalPages int, orders ...entity.Order) entity.Page[entity.Order] {
	return newPage(pageNumber, pageSize, totalPages, orders)
}

func newPage[T any](pageNumber, pageSize, totalPages int, content []T) entity.Page[T] {
	return entity.Page[T]{
		Content: content,
		Pageable: entity.Pageable{
			PageNumber: pageNumber,
			PageSize:   pageSize,
			Sort:       entity.Sort{Sorted: true},
		},
		TotalElements:    int64(totalPages * pageSize),
		TotalPages:       totalPages,
		First:            pageNumber == 0,
		Last:             totalPages == 0 || pageNumber == totalPages-1,
		NumberOfElements: len(content),
	}
}
