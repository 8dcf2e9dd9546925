package domain

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/errs"
)

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	// GetByID fails with ErrUserNotFound when the id does not resolve.
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
}

var (
	ErrUserNotFound       = errs.NotFound("User not found.")
	ErrUserExists         = errs.Conflict("User with same e-mail already exists.")
	ErrInvalidCredentials = errs.BadRequest("Invalid credentials.")
	ErrInvalidName        = errs.BadRequest("Name is required.")
	ErrInvalidEmail       = errs.BadRequest("A valid e-mail is required.")
	ErrInvalidPassword    = errs.BadRequest("Password must have at least 6 characters.")
)

// NormalizeEmail is the canonical form used for every e-mail comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
