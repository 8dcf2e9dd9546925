// Package events records domain events in a transactional outbox table.
package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	InviteCreatedTopic        = "invite.created"
	InviteAcceptedTopic       = "invite.accepted"
	InviteRejectedTopic       = "invite.rejected"
	InviteRevokedTopic        = "invite.revoked"
	OwnershipTransferredTopic = "organization.ownership_transferred"
)

// Event is what services hand to a Publisher.
type Event struct {
	Topic   string
	OrgID   snowflake.ID
	Payload any
}

// DomainEvent is a persisted outbox row.
type DomainEvent struct {
	ID        string         `gorm:"type:char(26);primaryKey" json:"id"`
	Topic     string         `gorm:"type:text;not null;index" json:"topic"`
	OrgID     snowflake.ID   `gorm:"column:organization_id;not null;index" json:"organization_id"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (DomainEvent) TableName() string { return "domain_events" }
