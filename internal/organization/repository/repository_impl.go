package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) domain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateOrganization(ctx context.Context, org domain.Organization) error {
	return db.Wrap("organization.create", r.db.WithContext(ctx).Create(&org).Error)
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	return r.findOrganization(ctx, "organization.find_by_id", "id = ?", id)
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.findOrganization(ctx, "organization.find_by_slug", "slug = ?", slug)
}

func (r *repository) FindByDomain(ctx context.Context, domainName string) (*domain.Organization, error) {
	return r.findOrganization(ctx, "organization.find_by_domain", "domain = ?", domainName)
}

func (r *repository) findOrganization(ctx context.Context, op string, query string, args ...any) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where(query, args...).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Wrap(op, err)
	}
	return &org, nil
}

func (r *repository) UpdateOwner(ctx context.Context, orgID snowflake.ID, ownerID snowflake.ID) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", orgID).
		Update("owner_id", ownerID).Error
	return db.Wrap("organization.update_owner", err)
}

func (r *repository) ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]domain.OrganizationListItem, error) {
	var items []domain.OrganizationListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT o.id, o.name, o.slug, o.avatar_url, o.owner_id, m.role
		 FROM organizations o
		 JOIN members m ON m.organization_id = o.id
		 WHERE m.user_id = ?
		 ORDER BY o.created_at ASC, o.id ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, db.Wrap("organization.list_by_user", err)
	}
	return items, nil
}

func (r *repository) AddMember(ctx context.Context, member domain.Member) error {
	return db.Wrap("member.create", r.db.WithContext(ctx).Create(&member).Error)
}

func (r *repository) FindMember(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Wrap("member.find", err)
	}
	return &member, nil
}

func (r *repository) FindMemberByEmail(ctx context.Context, orgID snowflake.ID, email string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Table("members AS m").
		Select("m.*").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.organization_id = ? AND u.email = ?", orgID, email).
		Limit(1).
		Scan(&member).Error
	if err != nil {
		return nil, db.Wrap("member.find_by_email", err)
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repository) UpdateMemberRole(ctx context.Context, orgID snowflake.ID, userID snowflake.ID, role domain.Role) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Update("role", role).Error
	return db.Wrap("member.update_role", err)
}
