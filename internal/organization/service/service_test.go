package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/authorization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/repository"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	repo  domain.Repository
	svc   domain.Service
	owner userdomain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&userdomain.User{}, &domain.Organization{}, &domain.Member{}, &events.DomainEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authorization.NewEmbeddedEnforcer()
	require.NoError(t, err)

	repo := repository.NewRepository(conn)
	f := &fixture{
		db:   conn,
		node: node,
		repo: repo,
		svc: NewService(Params{
			DB:        conn,
			Log:       zap.NewNop(),
			Repo:      repo,
			Authz:     authorization.NewService(zap.NewNop(), enforcer),
			GenID:     node,
			Publisher: events.NewOutboxPublisher(conn),
		}),
	}
	f.owner = f.createUser(t, "owner@acme.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) userdomain.User {
	t.Helper()
	now := time.Now().UTC()
	user := userdomain.User{ID: f.node.Generate(), Name: email, Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) addMember(t *testing.T, org *domain.Organization, user userdomain.User, role domain.Role) {
	t.Helper()
	require.NoError(t, f.repo.AddMember(context.Background(), domain.Member{
		ID:        f.node.Generate(),
		OrgID:     org.ID,
		UserID:    user.ID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}))
}

func (f *fixture) createOrg(t *testing.T, name string) *domain.Organization {
	t.Helper()
	org, err := f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{Name: name})
	require.NoError(t, err)
	return org
}

func (f *fixture) role(t *testing.T, orgID, userID snowflake.ID) domain.Role {
	t.Helper()
	member, err := f.repo.FindMember(context.Background(), orgID, userID)
	require.NoError(t, err)
	require.NotNil(t, member)
	return member.Role
}

func TestCreateMakesCreatorOwnerAndAdmin(t *testing.T) {
	f := newFixture(t)

	org := f.createOrg(t, "Acme Inc")

	assert.Equal(t, "acme-inc", org.Slug)
	assert.Equal(t, f.owner.ID, org.OwnerID)
	assert.Equal(t, domain.RoleAdmin, f.role(t, org.ID, f.owner.ID))
}

func TestCreateRejectsTakenSlugAndDomain(t *testing.T) {
	f := newFixture(t)
	acme := "Acme.com"

	_, err := f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{Name: "Acme", Domain: &acme})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{Name: "acme"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	lower := "acme.com"
	_, err = f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{Name: "Other", Domain: &lower})
	assert.ErrorIs(t, err, domain.ErrDomainTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestGetMembership(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t, "Acme")
	outsider := f.createUser(t, "outsider@example.com")

	membership, err := f.svc.GetMembership(context.Background(), f.owner.ID, org.Slug)
	require.NoError(t, err)
	assert.Equal(t, org.ID, membership.Organization.ID)
	assert.Equal(t, domain.RoleAdmin, membership.Member.Role)

	_, err = f.svc.GetMembership(context.Background(), f.owner.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)

	_, err = f.svc.GetMembership(context.Background(), outsider.ID, org.Slug)
	assert.ErrorIs(t, err, domain.ErrNotMember)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestListByUser(t *testing.T) {
	f := newFixture(t)
	f.createOrg(t, "First")
	f.createOrg(t, "Second")
	stranger := f.createUser(t, "stranger@example.com")

	items, err := f.svc.ListByUser(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Slug)
	assert.Equal(t, domain.RoleAdmin, items[0].Role)

	items, err = f.svc.ListByUser(context.Background(), stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTransferPromotesTargetAndKeepsPreviousOwnerRole(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t, "Acme")
	target := f.createUser(t, "target@acme.com")
	f.addMember(t, org, target, domain.RoleMember)

	err := f.svc.Transfer(context.Background(), org.Slug, f.owner.ID, target.ID)
	require.NoError(t, err)

	updated, err := f.repo.FindByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, updated.OwnerID)
	assert.Equal(t, domain.RoleAdmin, f.role(t, org.ID, target.ID))
	assert.Equal(t, domain.RoleAdmin, f.role(t, org.ID, f.owner.ID))

	var count int64
	require.NoError(t, f.db.Model(&events.DomainEvent{}).Where("topic = ?", events.OwnershipTransferredTopic).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransferForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t, "Acme")
	admin := f.createUser(t, "admin@acme.com")
	member := f.createUser(t, "member@acme.com")
	f.addMember(t, org, admin, domain.RoleAdmin)
	f.addMember(t, org, member, domain.RoleMember)

	err := f.svc.Transfer(context.Background(), org.Slug, admin.ID, member.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	err = f.svc.Transfer(context.Background(), org.Slug, member.ID, admin.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	unchanged, err := f.repo.FindByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, unchanged.OwnerID)
	assert.Equal(t, domain.RoleMember, f.role(t, org.ID, member.ID))
}

func TestTransferRequiresTargetMembership(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t, "Acme")
	outsider := f.createUser(t, "outsider@example.com")

	err := f.svc.Transfer(context.Background(), org.Slug, f.owner.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrTargetNotMember)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestTransferPropagatesMembershipFailure(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Transfer(context.Background(), "missing", f.owner.ID, f.owner.ID)
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

func TestTransferIsAtomic(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t, "Acme")
	target := f.createUser(t, "target@acme.com")
	f.addMember(t, org, target, domain.RoleMember)

	errBoom := errors.New("boom")
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_owner_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "organizations" {
			_ = tx.AddError(errBoom)
		}
	}))

	err := f.svc.Transfer(context.Background(), org.Slug, f.owner.ID, target.ID)
	require.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, db.ErrOperationFailed)

	assert.Equal(t, domain.RoleMember, f.role(t, org.ID, target.ID))
	unchanged, err := f.repo.FindByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, unchanged.OwnerID)
}

func TestAttachByDomain(t *testing.T) {
	f := newFixture(t)
	acme := "acme.com"
	org, err := f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{
		Name:                      "Acme",
		Domain:                    &acme,
		ShouldAttachUsersByDomain: true,
	})
	require.NoError(t, err)
	newcomer := f.createUser(t, "newcomer@acme.com")

	member, err := f.svc.AttachByDomain(context.Background(), newcomer.ID, "newcomer@ACME.com")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, org.ID, member.OrgID)
	assert.Equal(t, domain.RoleMember, member.Role)

	again, err := f.svc.AttachByDomain(context.Background(), newcomer.ID, "newcomer@acme.com")
	require.NoError(t, err)
	assert.Equal(t, member.ID, again.ID)

	none, err := f.svc.AttachByDomain(context.Background(), newcomer.ID, "newcomer@elsewhere.io")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAttachByDomainSkipsWhenDisabled(t *testing.T) {
	f := newFixture(t)
	acme := "acme.com"
	_, err := f.svc.Create(context.Background(), f.owner.ID, domain.CreateOrganizationRequest{Name: "Acme", Domain: &acme})
	require.NoError(t, err)
	newcomer := f.createUser(t, "newcomer@acme.com")

	member, err := f.svc.AttachByDomain(context.Background(), newcomer.ID, newcomer.Email)
	require.NoError(t, err)
	assert.Nil(t, member)
}
