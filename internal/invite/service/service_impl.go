package service

import (
	"context"
	"net/mail"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/authorization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability/metrics"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	OrgRepo   orgdomain.Repository
	OrgSvc    orgdomain.Service
	UserSvc   userdomain.Service
	Authz     authorization.Service
	GenID     *snowflake.Node
	Publisher events.Publisher     `optional:"true"`
	Metrics   *metrics.HTTPMetrics `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	orgRepo   orgdomain.Repository
	orgSvc    orgdomain.Service
	userSvc   userdomain.Service
	authz     authorization.Service
	genID     *snowflake.Node
	publisher events.Publisher
	metrics   *metrics.HTTPMetrics
}

func NewService(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("invite.service"),
		repo:      p.Repo,
		orgRepo:   p.OrgRepo,
		orgSvc:    p.OrgSvc,
		userSvc:   p.UserSvc,
		authz:     p.Authz,
		genID:     p.GenID,
		publisher: p.Publisher,
		metrics:   p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, orgSlug string, req domain.CreateInviteRequest) (*domain.Invite, error) {
	email := userdomain.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	role, ok := orgdomain.ParseRole(req.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	membership, err := s.orgSvc.GetMembership(ctx, userID, orgSlug)
	if err != nil {
		return nil, err
	}
	org := membership.Organization

	if s.ability(userID, membership).Cannot(authorization.ActionCreate, authorization.SubjectInvite) {
		return nil, domain.ErrCreateForbidden
	}

	emailDomain := orgdomain.EmailDomain(email)
	if org.ShouldAttachUsersByDomain && org.Domain != nil && emailDomain == orgdomain.NormalizeDomain(*org.Domain) {
		return nil, domain.AutoAttachDomainError(emailDomain)
	}

	member, err := s.orgRepo.FindMemberByEmail(ctx, org.ID, email)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return nil, domain.ErrMemberExists
	}

	pending, err := s.repo.FindPendingByEmailAndOrganization(ctx, email, org.ID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrPendingInvite
	}

	now := time.Now().UTC()
	inviterID := userID
	invite, err := s.repo.Create(ctx, domain.Invite{
		ID:        s.genID.Generate(),
		Email:     email,
		Role:      role,
		Status:    domain.StatusPending,
		OrgID:     org.ID,
		InviterID: &inviterID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.InviteCreatedTopic, "created", *invite, userID)
	return invite, nil
}

func (s *service) Accept(ctx context.Context, userID snowflake.ID, inviteID snowflake.ID) error {
	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite == nil {
		return domain.ErrInviteNotFound
	}
	if !invite.IsPending() {
		return domain.ErrInviteNotValid
	}

	user, err := s.userSvc.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if userdomain.NormalizeEmail(user.Email) != invite.Email {
		return domain.ErrAcceptEmailMismatch
	}

	org, err := s.orgRepo.FindByID(ctx, invite.OrgID)
	if err != nil {
		return err
	}
	if org == nil {
		return orgdomain.ErrOrganizationNotFound
	}
	existing, err := s.orgRepo.FindMember(ctx, org.ID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		// Retire the stale invite so it stops showing up as pending.
		if _, err := s.repo.UpdateStatus(ctx, invite.ID, domain.StatusAccepted); err != nil {
			return err
		}
		return domain.ErrAlreadyMember
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orgRepo.WithTx(tx).AddMember(ctx, orgdomain.Member{
			ID:        s.genID.Generate(),
			OrgID:     org.ID,
			UserID:    userID,
			Role:      invite.Role,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		updated, err := s.repo.WithTx(tx).UpdateStatus(ctx, invite.ID, domain.StatusAccepted)
		if err != nil {
			return err
		}
		invite = updated
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, events.InviteAcceptedTopic, "accepted", *invite, userID)
	return nil
}

func (s *service) Reject(ctx context.Context, inviteID snowflake.ID, userID snowflake.ID) (*domain.Invite, error) {
	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrInviteNotFound
	}
	if !invite.IsPending() {
		return nil, domain.ErrInviteNotValid
	}

	user, err := s.userSvc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userdomain.NormalizeEmail(user.Email) != invite.Email {
		return nil, domain.ErrRejectEmailMismatch
	}

	updated, err := s.repo.UpdateStatus(ctx, invite.ID, domain.StatusRejected)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.InviteRejectedTopic, "rejected", *updated, userID)
	return updated, nil
}

func (s *service) Revoke(ctx context.Context, inviteID snowflake.ID, orgSlug string, userID snowflake.ID) error {
	membership, err := s.orgSvc.GetMembership(ctx, userID, orgSlug)
	if err != nil {
		return err
	}
	if s.ability(userID, membership).Cannot(authorization.ActionDelete, authorization.SubjectInvite) {
		return domain.ErrRevokeForbidden
	}

	invite, err := s.repo.FindByOrganizationAndID(ctx, membership.Organization.ID, inviteID)
	if err != nil {
		return err
	}
	if invite == nil {
		return domain.ErrInviteNotFound
	}
	if !invite.IsPending() {
		return domain.ErrRevokeNotPending
	}

	deleted, err := s.repo.Delete(ctx, invite.ID)
	if err != nil {
		return err
	}

	s.emit(ctx, events.InviteRevokedTopic, "revoked", *deleted, userID)
	return nil
}

func (s *service) Get(ctx context.Context, inviteID snowflake.ID) (*domain.InviteDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrInviteNotFound
	}
	return detail, nil
}

func (s *service) ListPending(ctx context.Context, userID snowflake.ID) ([]domain.InviteDetail, error) {
	user, err := s.userSvc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPendingByEmail(ctx, userdomain.NormalizeEmail(user.Email))
}

func (s *service) ListByOrganization(ctx context.Context, orgSlug string, userID snowflake.ID) ([]domain.InviteDetail, error) {
	membership, err := s.orgSvc.GetMembership(ctx, userID, orgSlug)
	if err != nil {
		return nil, err
	}
	if s.ability(userID, membership).Cannot(authorization.ActionGet, authorization.SubjectInvite) {
		return nil, domain.ErrListForbidden
	}
	return s.repo.ListByOrganization(ctx, membership.Organization.ID)
}

func (s *service) ability(userID snowflake.ID, membership *orgdomain.Membership) authorization.Ability {
	return s.authz.For(userID, string(membership.Member.Role))
}

func (s *service) emit(ctx context.Context, topic string, transition string, invite domain.Invite, actorID snowflake.ID) {
	s.metrics.RecordInviteTransition(transition)
	events.Emit(ctx, s.log, s.publisher, events.Event{
		Topic: topic,
		OrgID: invite.OrgID,
		Payload: map[string]string{
			"invite_id":       invite.ID.String(),
			"organization_id": invite.OrgID.String(),
			"email":           invite.Email,
			"role":            string(invite.Role),
			"status":          string(invite.Status),
			"actor_id":        actorID.String(),
		},
	})
}
