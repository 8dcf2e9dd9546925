package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/authorization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Authz     authorization.Service
	GenID     *snowflake.Node
	Publisher events.Publisher `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	authz     authorization.Service
	genID     *snowflake.Node
	publisher events.Publisher
}

func NewService(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("organization.service"),
		repo:      p.Repo,
		authz:     p.Authz,
		genID:     p.GenID,
		publisher: p.Publisher,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	orgSlug := slug.Make(name)
	if orgSlug == "" {
		return nil, domain.ErrInvalidName
	}

	var orgDomain *string
	if req.Domain != nil {
		d := domain.NormalizeDomain(*req.Domain)
		if d != "" {
			if !strings.Contains(d, ".") || strings.Contains(d, "@") {
				return nil, domain.ErrInvalidDomain
			}
			orgDomain = &d
		}
	}

	existing, err := s.repo.FindBySlug(ctx, orgSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugTaken
	}
	if orgDomain != nil {
		existing, err := s.repo.FindByDomain(ctx, *orgDomain)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDomainTaken
		}
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:                        s.genID.Generate(),
		Name:                      name,
		Slug:                      orgSlug,
		Domain:                    orgDomain,
		ShouldAttachUsersByDomain: req.ShouldAttachUsersByDomain,
		OwnerID:                   userID,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}
		return repo.AddMember(ctx, domain.Member{
			ID:        s.genID.Generate(),
			OrgID:     org.ID,
			UserID:    userID,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
		})
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return &org, nil
}

func (s *service) GetMembership(ctx context.Context, userID snowflake.ID, orgSlug string) (*domain.Membership, error) {
	org, err := s.repo.FindBySlug(ctx, strings.TrimSpace(orgSlug))
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}

	member, err := s.repo.FindMember(ctx, org.ID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotMember
	}

	return &domain.Membership{Organization: *org, Member: *member}, nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.OrganizationListItem, error) {
	items, err := s.repo.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.OrganizationListItem{}
	}
	return items, nil
}

func (s *service) Transfer(ctx context.Context, orgSlug string, userID snowflake.ID, transferToUserID snowflake.ID) error {
	membership, err := s.GetMembership(ctx, userID, orgSlug)
	if err != nil {
		return err
	}
	org := membership.Organization

	ability := s.authz.For(userID, string(membership.Member.Role))
	resource := authorization.OrganizationResource{ID: org.ID, OwnerID: org.OwnerID}
	if ability.Cannot(authorization.ActionUpdate, resource) {
		return domain.ErrTransferForbidden
	}

	target, err := s.repo.FindMember(ctx, org.ID, transferToUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrTargetNotMember
	}

	// The previous owner keeps their member role.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateMemberRole(ctx, org.ID, transferToUserID, domain.RoleAdmin); err != nil {
			return err
		}
		return repo.UpdateOwner(ctx, org.ID, transferToUserID)
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, s.log, s.publisher, events.Event{
		Topic: events.OwnershipTransferredTopic,
		OrgID: org.ID,
		Payload: map[string]string{
			"organization_id":   org.ID.String(),
			"previous_owner_id": org.OwnerID.String(),
			"new_owner_id":      transferToUserID.String(),
			"transferred_by":    userID.String(),
		},
	})
	return nil
}

func (s *service) AttachByDomain(ctx context.Context, userID snowflake.ID, email string) (*domain.Member, error) {
	emailDomain := domain.EmailDomain(email)
	if emailDomain == "" {
		return nil, nil
	}

	org, err := s.repo.FindByDomain(ctx, emailDomain)
	if err != nil {
		return nil, err
	}
	if org == nil || !org.ShouldAttachUsersByDomain {
		return nil, nil
	}

	existing, err := s.repo.FindMember(ctx, org.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	member := domain.Member{
		ID:        s.genID.Generate(),
		OrgID:     org.ID,
		UserID:    userID,
		Role:      domain.RoleMember,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindMember(ctx, org.ID, userID)
		}
		return nil, err
	}

	s.log.Info("user attached by domain",
		zap.String("org_id", org.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return &member, nil
}
