package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=./mocks/mock_repository.go -package=mocks

// Repository is the invite store. Finders return nil, nil when nothing matches.
// Every failure is a *db.OperationError; no business rule is checked here.
type Repository interface {
	// WithTx binds the repository to a caller-owned transaction.
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invite Invite) (*Invite, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Invite, error)
	FindByOrganizationAndID(ctx context.Context, orgID snowflake.ID, id snowflake.ID) (*Invite, error)
	FindPendingByEmailAndOrganization(ctx context.Context, email string, orgID snowflake.ID) (*Invite, error)
	// FindPendingByEmail lists pending invites for email, newest first.
	FindPendingByEmail(ctx context.Context, email string) ([]InviteDetail, error)
	FindDetailByID(ctx context.Context, id snowflake.ID) (*InviteDetail, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]InviteDetail, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status) (*Invite, error)
	Delete(ctx context.Context, id snowflake.ID) (*Invite, error)
}
