package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
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

func (r *repository) Create(ctx context.Context, invite domain.Invite) (*domain.Invite, error) {
	if err := r.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, db.Wrap("invite.create", err)
	}
	return &invite, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	return r.findOne(ctx, "invite.find_by_id", "id = ?", id)
}

func (r *repository) FindByOrganizationAndID(ctx context.Context, orgID snowflake.ID, id snowflake.ID) (*domain.Invite, error) {
	return r.findOne(ctx, "invite.find_by_organization_and_id", "organization_id = ? AND id = ?", orgID, id)
}

func (r *repository) FindPendingByEmailAndOrganization(ctx context.Context, email string, orgID snowflake.ID) (*domain.Invite, error) {
	return r.findOne(ctx, "invite.find_pending_by_email_and_organization",
		"email = ? AND organization_id = ? AND status = ?", email, orgID, domain.StatusPending)
}

func (r *repository) findOne(ctx context.Context, op string, query string, args ...any) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).Where(query, args...).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Wrap(op, err)
	}
	return &invite, nil
}

func (r *repository) FindPendingByEmail(ctx context.Context, email string) ([]domain.InviteDetail, error) {
	var rows []detailRow
	err := r.details(ctx).
		Where("i.email = ? AND i.status = ?", email, domain.StatusPending).
		Order("i.created_at DESC, i.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Wrap("invite.find_pending_by_email", err)
	}
	return toDetails(rows), nil
}

func (r *repository) FindDetailByID(ctx context.Context, id snowflake.ID) (*domain.InviteDetail, error) {
	var rows []detailRow
	err := r.details(ctx).Where("i.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, db.Wrap("invite.find_detail_by_id", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	detail := rows[0].toDetail()
	return &detail, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.InviteDetail, error) {
	var rows []detailRow
	err := r.details(ctx).
		Where("i.organization_id = ?", orgID).
		Order("i.created_at DESC, i.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Wrap("invite.list_by_organization", err)
	}
	return toDetails(rows), nil
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.Status) (*domain.Invite, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.Invite{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, db.Wrap("invite.update_status", err)
	}

	invite, err := r.findOne(ctx, "invite.update_status", "id = ?", id)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, db.Wrap("invite.update_status", gorm.ErrRecordNotFound)
	}
	return invite, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	invite, err := r.findOne(ctx, "invite.delete", "id = ?", id)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, db.Wrap("invite.delete", gorm.ErrRecordNotFound)
	}
	if err := r.db.WithContext(ctx).Delete(&domain.Invite{}, "id = ?", id).Error; err != nil {
		return nil, db.Wrap("invite.delete", err)
	}
	return invite, nil
}

func (r *repository) details(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invites AS i").
		Select(`i.id, i.email, i.role, i.status, i.created_at,
			o.id AS organization_id, o.name AS organization_name,
			o.slug AS organization_slug, o.avatar_url AS organization_avatar_url,
			u.id AS inviter_id, u.name AS inviter_name, u.avatar_url AS inviter_avatar_url`).
		Joins("JOIN organizations o ON o.id = i.organization_id").
		Joins("LEFT JOIN users u ON u.id = i.inviter_id")
}

type detailRow struct {
	ID                    snowflake.ID
	Email                 string
	Role                  string
	Status                string
	CreatedAt             time.Time
	OrganizationID        snowflake.ID
	OrganizationName      string
	OrganizationSlug      string
	OrganizationAvatarURL *string
	InviterID             *int64
	InviterName           *string
	InviterAvatarURL      *string
}

func (row detailRow) toDetail() domain.InviteDetail {
	detail := domain.InviteDetail{
		ID:        row.ID,
		Email:     row.Email,
		Role:      orgdomain.Role(row.Role),
		Status:    domain.Status(row.Status),
		CreatedAt: row.CreatedAt,
		Organization: domain.OrganizationSummary{
			ID:        row.OrganizationID,
			Name:      row.OrganizationName,
			Slug:      row.OrganizationSlug,
			AvatarURL: row.OrganizationAvatarURL,
		},
	}
	if row.InviterID != nil {
		inviter := &domain.InviterSummary{
			ID:        snowflake.ID(*row.InviterID),
			AvatarURL: row.InviterAvatarURL,
		}
		if row.InviterName != nil {
			inviter.Name = *row.InviterName
		}
		detail.Inviter = inviter
	}
	return detail
}

func toDetails(rows []detailRow) []domain.InviteDetail {
	details := make([]domain.InviteDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDetail())
	}
	return details
}
