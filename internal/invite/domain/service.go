package domain

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/errs"
)

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, orgSlug string, req CreateInviteRequest) (*Invite, error)
	Accept(ctx context.Context, userID snowflake.ID, inviteID snowflake.ID) error
	Reject(ctx context.Context, inviteID snowflake.ID, userID snowflake.ID) (*Invite, error)
	Revoke(ctx context.Context, inviteID snowflake.ID, orgSlug string, userID snowflake.ID) error
	Get(ctx context.Context, inviteID snowflake.ID) (*InviteDetail, error)
	ListPending(ctx context.Context, userID snowflake.ID) ([]InviteDetail, error)
	ListByOrganization(ctx context.Context, orgSlug string, userID snowflake.ID) ([]InviteDetail, error)
}

type CreateInviteRequest struct {
	Email string
	Role  string
}

var (
	ErrInviteNotFound      = errs.NotFound("Invite not found.")
	ErrInviteNotValid      = errs.BadRequest("This invite is no longer valid.")
	ErrAcceptEmailMismatch = errs.BadRequest("You can only accept invites sent to your email address.")
	ErrRejectEmailMismatch = errs.BadRequest("You can only reject invites sent to your email address.")
	ErrAlreadyMember       = errs.BadRequest("You are already a member of this organization.")
	ErrRevokeNotPending    = errs.BadRequest("Only pending invites can be revoked.")
	ErrMemberExists        = errs.Conflict("User with this email is already a member of this organization.")
	ErrPendingInvite       = errs.Conflict("User with this email already has a pending invite.")
	ErrCreateForbidden     = errs.Forbidden("You're not allowed to create new invites.")
	ErrRevokeForbidden     = errs.Forbidden("You're not allowed to revoke an invite.")
	ErrListForbidden       = errs.Forbidden("You're not allowed to get organization invites.")
	ErrInvalidEmail        = errs.BadRequest("A valid e-mail is required.")
	ErrInvalidRole         = errs.BadRequest("Role must be one of ADMIN, MEMBER or BILLING.")
)

// AutoAttachDomainError rejects invites that domain auto-attach would make redundant.
func AutoAttachDomainError(domain string) error {
	return errs.BadRequest(fmt.Sprintf("Users with %q domain will join your organization automatically on login.", domain))
}
