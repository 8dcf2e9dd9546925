package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *snowflake.Node, orgdomain.Organization) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&userdomain.User{}, &orgdomain.Organization{}, &domain.Invite{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Now().UTC()
	org := orgdomain.Organization{ID: node.Generate(), Name: "Acme", Slug: "acme", OwnerID: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&org).Error)
	return conn, node, org
}

func newInvite(node *snowflake.Node, orgID snowflake.ID, email string, inviterID *snowflake.ID) domain.Invite {
	now := time.Now().UTC()
	return domain.Invite{
		ID:        node.Generate(),
		Email:     email,
		Role:      orgdomain.RoleMember,
		Status:    domain.StatusPending,
		OrgID:     orgID,
		InviterID: inviterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFindersReturnNilWhenMissing(t *testing.T) {
	conn, _, org := setup(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	invite, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, invite)

	invite, err = repo.FindByOrganizationAndID(ctx, org.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, invite)

	detail, err := repo.FindDetailByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestPendingLookupIgnoresTerminalInvites(t *testing.T) {
	conn, node, org := setup(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, newInvite(node, org.ID, "a@x.com", nil))
	require.NoError(t, err)

	found, err := repo.FindPendingByEmailAndOrganization(ctx, "a@x.com", org.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)

	found, err = repo.FindPendingByEmailAndOrganization(ctx, "a@x.com", org.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	pending, err := repo.FindPendingByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDetailsJoinOrganizationAndOptionalInviter(t *testing.T) {
	conn, node, org := setup(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Now().UTC()
	inviter := userdomain.User{ID: node.Generate(), Name: "Admin", Email: "admin@x.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&inviter).Error)

	withInviter, err := repo.Create(ctx, newInvite(node, org.ID, "a@x.com", &inviter.ID))
	require.NoError(t, err)
	orphan := snowflake.ID(424242)
	withoutInviter, err := repo.Create(ctx, newInvite(node, org.ID, "b@x.com", &orphan))
	require.NoError(t, err)

	detail, err := repo.FindDetailByID(ctx, withInviter.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "acme", detail.Organization.Slug)
	require.NotNil(t, detail.Inviter)
	assert.Equal(t, "Admin", detail.Inviter.Name)

	detail, err = repo.FindDetailByID(ctx, withoutInviter.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Nil(t, detail.Inviter)

	listed, err := repo.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, withoutInviter.ID, listed[0].ID)
}

func TestDeleteReturnsRemovedInvite(t *testing.T) {
	conn, node, org := setup(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, newInvite(node, org.ID, "a@x.com", nil))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, db.ErrOperationFailed)
}
