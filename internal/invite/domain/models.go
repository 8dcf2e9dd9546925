// Package domain contains the invite model, its state machine and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
)

type Status string

// PENDING is the only non-terminal status.
const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Invite is a single-use offer to join an organization, addressed by email.
type Invite struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"type:text;not null;index;index:ix_invites_email_org,priority:1" json:"email"`
	Role      orgdomain.Role `gorm:"type:text;not null" json:"role"`
	Status    Status         `gorm:"type:text;not null" json:"status"`
	OrgID     snowflake.ID   `gorm:"column:organization_id;not null;index:ix_invites_email_org,priority:2" json:"organization_id"`
	InviterID *snowflake.ID  `gorm:"column:inviter_id;index" json:"inviter_id"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Invite) TableName() string { return "invites" }

// IsPending reports whether the invite can still change state.
func (i Invite) IsPending() bool { return i.Status == StatusPending }

type OrganizationSummary struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	AvatarURL *string      `json:"avatar_url"`
}

type InviterSummary struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	AvatarURL *string      `json:"avatar_url"`
}

// InviteDetail is an invite joined with its organization and inviter.
// Inviter is nil when the inviting account no longer exists.
type InviteDetail struct {
	ID           snowflake.ID        `json:"id"`
	Email        string              `json:"email"`
	Role         orgdomain.Role      `json:"role"`
	Status       Status              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	Organization OrganizationSummary `json:"organization"`
	Inviter      *InviterSummary     `json:"author"`
}
