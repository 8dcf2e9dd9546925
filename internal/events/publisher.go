package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrMissingTopic = errors.New("missing event topic")

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type outboxPublisher struct {
	db *gorm.DB
}

func NewOutboxPublisher(conn *gorm.DB) Publisher {
	return &outboxPublisher{db: conn}
}

func (p *outboxPublisher) Publish(ctx context.Context, event Event) error {
	topic := strings.TrimSpace(event.Topic)
	if topic == "" {
		return ErrMissingTopic
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	row := DomainEvent{
		ID:        ulid.Make().String(),
		Topic:     topic,
		OrgID:     event.OrgID,
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now().UTC(),
	}
	return db.Wrap("events.publish", p.db.WithContext(ctx).Create(&row).Error)
}

// Emit publishes an event and logs a failure instead of returning it.
// Callers invoke it after their writes have committed.
func Emit(ctx context.Context, log *zap.Logger, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish domain event",
			zap.String("topic", event.Topic),
			zap.String("org_id", event.OrgID.String()),
			zap.Error(err),
		)
	}
}
