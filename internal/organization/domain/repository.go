package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type OrganizationListItem struct {
	ID        snowflake.ID
	Name      string
	Slug      string
	AvatarURL *string
	OwnerID   snowflake.ID
	Role      Role
}

// Repository finders return nil, nil when no row matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	FindByDomain(ctx context.Context, domain string) (*Organization, error)
	UpdateOwner(ctx context.Context, orgID snowflake.ID, ownerID snowflake.ID) error
	ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListItem, error)

	AddMember(ctx context.Context, member Member) error
	FindMember(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (*Member, error)
	// FindMemberByEmail resolves the member of orgID whose user account has email.
	FindMemberByEmail(ctx context.Context, orgID snowflake.ID, email string) (*Member, error)
	UpdateMemberRole(ctx context.Context, orgID snowflake.ID, userID snowflake.ID, role Role) error
}
