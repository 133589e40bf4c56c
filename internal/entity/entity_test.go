package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequestValidate(t *testing.T) {
	age := 30
	badAge := 200

	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{"valid", CreateUserRequest{Name: "Ada", Email: "ada@x.io", Age: &age}, ""},
		{"missing name", CreateUserRequest{Email: "ada@x.io"}, "name is required"},
		{"missing email", CreateUserRequest{Name: "Ada"}, "email is required"},
		{"malformed email", CreateUserRequest{Name: "Ada", Email: "nope"}, "email must be a valid address"},
		{"age out of range", CreateUserRequest{Name: "Ada", Email: "ada@x.io", Age: &badAge}, "age must be between 0 and 150"},
		{"unknown status", CreateUserRequest{Name: "Ada", Email: "ada@x.io", Status: "FROZEN"}, `unknown user status "FROZEN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr string
	}{
		{"valid", CreateOrderRequest{UserID: 1, Product: "Laptop", Price: 999.99, Quantity: 1}, ""},
		{"missing user", CreateOrderRequest{Product: "Laptop", Price: 1}, "userId is required"},
		{"missing product", CreateOrderRequest{UserID: 1, Price: 1}, "product is required"},
		{"negative price", CreateOrderRequest{UserID: 1, Product: "Laptop", Price: -1}, "price must not be negative"},
		{"unset quantity tolerated", CreateOrderRequest{UserID: 1, Product: "Laptop", Price: 1}, ""},
		{"negative quantity", CreateOrderRequest{UserID: 1, Product: "Laptop", Quantity: -2}, "quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestPageCheckInvariants(t *testing.T) {
	page := func(num, size, totalPages, items int, first, last bool) Page[User] {
		return Page[User]{
			Content:          make([]User, items),
			Pageable:         Pageable{PageNumber: num, PageSize: size},
			TotalPages:       totalPages,
			First:            first,
			Last:             last,
			NumberOfElements: items,
		}
	}

	assert.NoError(t, page(0, 10, 3, 10, true, false).CheckInvariants())
	assert.NoError(t, page(2, 10, 3, 4, false, true).CheckInvariants())

	assert.Error(t, page(0, 10, 3, 11, true, false).CheckInvariants(), "content larger than page size")
	assert.Error(t, page(1, 10, 3, 10, true, false).CheckInvariants(), "first flag on non-first page")
	assert.Error(t, page(2, 10, 3, 4, false, false).CheckInvariants(), "last flag missing on final page")
}

func TestStatusEnums(t *testing.T) {
	for _, s := range []UserStatus{UserActive, UserInactive, UserSuspended} {
		assert.True(t, s.Valid())
	}
	assert.False(t, UserStatus("DELETED").Valid())

	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("RETURNED").Valid())
}
