package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOutboxPublisherPersistsEvent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&DomainEvent{}))

	pub := NewOutboxPublisher(conn)
	err = pub.Publish(context.Background(), Event{
		Topic:   InviteCreatedTopic,
		OrgID:   snowflake.ID(42),
		Payload: map[string]string{"invite_id": "7"},
	})
	require.NoError(t, err)

	var rows []DomainEvent
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].ID, 26)
	assert.Equal(t, InviteCreatedTopic, rows[0].Topic)
	assert.Equal(t, snowflake.ID(42), rows[0].OrgID)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rows[0].Payload, &payload))
	assert.Equal(t, "7", payload["invite_id"])
}

func TestOutboxPublisherRequiresTopic(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	err = NewOutboxPublisher(conn).Publish(context.Background(), Event{Topic: "  "})
	assert.ErrorIs(t, err, ErrMissingTopic)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error { return errors.New("boom") }

func TestEmitLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	Emit(context.Background(), zap.New(core), failingPublisher{}, Event{Topic: InviteRevokedTopic})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to publish domain event", logs.All()[0].Message)
}
