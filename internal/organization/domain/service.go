package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/errs"
)

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateOrganizationRequest) (*Organization, error)
	// GetMembership is the entry gate for every organization-scoped operation.
	GetMembership(ctx context.Context, userID snowflake.ID, slug string) (*Membership, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListItem, error)
	Transfer(ctx context.Context, slug string, userID snowflake.ID, transferToUserID snowflake.ID) error
	// AttachByDomain adds userID as a MEMBER of the organization that claims
	// the email's domain. It returns nil, nil when no organization applies.
	AttachByDomain(ctx context.Context, userID snowflake.ID, email string) (*Member, error)
}

type CreateOrganizationRequest struct {
	Name                      string
	Domain                    *string
	ShouldAttachUsersByDomain bool
}

var (
	ErrOrganizationNotFound = errs.NotFound("Organization not found.")
	ErrNotMember            = errs.Unauthorized("You're not a member of this organization.")
	ErrTransferForbidden    = errs.Forbidden("You're not allowed to transfer this organization ownership.")
	ErrTargetNotMember      = errs.Unauthorized("Target user is not a member of this organization.")
	ErrSlugTaken            = errs.Conflict("Another organization with same slug already exists.")
	ErrDomainTaken          = errs.Conflict("Another organization with same domain already exists.")
	ErrInvalidName          = errs.BadRequest("Organization name is required.")
	ErrInvalidDomain        = errs.BadRequest("Organization domain is invalid.")
)
