// Package domain contains persistence models for organizations and memberships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization represents a tenant. Ownership is the OwnerID column, not a role.
type Organization struct {
	ID                        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name                      string       `gorm:"type:text;not null" json:"name"`
	Slug                      string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Domain                    *string      `gorm:"type:text;uniqueIndex:ux_organizations_domain" json:"domain"`
	ShouldAttachUsersByDomain bool         `gorm:"column:should_attach_users_by_domain;not null;default:false" json:"should_attach_users_by_domain"`
	AvatarURL                 *string      `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	OwnerID                   snowflake.ID `gorm:"column:owner_id;not null;index" json:"owner_id"`
	CreatedAt                 time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt                 time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Member links a user to an organization with exactly one role.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"column:organization_id;not null;index;uniqueIndex:ux_members_org_user,priority:1" json:"organization_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_members_org_user,priority:2" json:"user_id"`
	Role      Role         `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }

// Membership is an organization resolved together with the caller's member row.
type Membership struct {
	Organization Organization
	Member       Member
}
