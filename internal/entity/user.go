package entity

import (
	"fmt"
	"strings"
	"time"
)

// UserStatus is the fixed lifecycle enum the gateway uses for users.
type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

// Valid reports whether the status is one of the gateway's known values.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended:
		return true
	}
	return false
}

// User mirrors the gateway's user resource. The gateway owns the record; this
// copy is only as fresh as the last successful fetch.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserRequest is the POST /users body. Uniqueness and deeper validity
// checks live in the gateway; the client only enforces presence and ranges.
type CreateUserRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Status      UserStatus `json:"status,omitempty"`
}

// UpdateUserRequest is the PUT /users/{id} body, same shape as create.
type UpdateUserRequest = CreateUserRequest

// Validate performs the required/min/max checks the form layer relies on.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email must be a valid address")
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > 150) {
		return fmt.Errorf("age must be between 0 and 150")
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("unknown user status %q", r.Status)
	}
	return nil
}

// UserStatistics is a read-only aggregate snapshot computed by the gateway.
type UserStatistics struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveUsers    int64 `json:"activeUsers"`
	InactiveUsers  int64 `json:"inactiveUsers"`
	SuspendedUsers int64 `json:"suspendedUsers"`
}
