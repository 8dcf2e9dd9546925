package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/authorization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/repository"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	orgrepository "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/repository"
	orgservice "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/service"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	userrepository "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/repository"
	userservice "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/service"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	repo    domain.Repository
	orgRepo orgdomain.Repository
	orgSvc  orgdomain.Service
	userSvc userdomain.Service
	svc     domain.Service

	admin *userdomain.User
	org   *orgdomain.Organization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&orgdomain.Organization{},
		&orgdomain.Member{},
		&domain.Invite{},
		&events.DomainEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	enforcer, err := authorization.NewEmbeddedEnforcer()
	require.NoError(t, err)
	authz := authorization.NewService(zap.NewNop(), enforcer)
	publisher := events.NewOutboxPublisher(conn)

	f := &fixture{db: conn, node: node}
	f.userSvc = userservice.NewService(zap.NewNop(), userrepository.NewRepository(conn), node)
	f.orgRepo = orgrepository.NewRepository(conn)
	f.orgSvc = orgservice.NewService(orgservice.Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Repo:      f.orgRepo,
		Authz:     authz,
		GenID:     node,
		Publisher: publisher,
	})
	f.repo = repository.NewRepository(conn)
	f.svc = NewService(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Repo:      f.repo,
		OrgRepo:   f.orgRepo,
		OrgSvc:    f.orgSvc,
		UserSvc:   f.userSvc,
		Authz:     authz,
		GenID:     node,
		Publisher: publisher,
	})

	f.admin = f.createUser(t, "admin@acme.com")
	f.org, err = f.orgSvc.Create(context.Background(), f.admin.ID, orgdomain.CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	return f
}

func (f *fixture) createUser(t *testing.T, email string) *userdomain.User {
	t.Helper()
	user, err := f.userSvc.Create(context.Background(), userdomain.CreateUserRequest{
		Name:     email,
		Email:    email,
		Password: "secret-password",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) addMember(t *testing.T, user *userdomain.User, role orgdomain.Role) {
	t.Helper()
	require.NoError(t, f.orgRepo.AddMember(context.Background(), orgdomain.Member{
		ID:     f.node.Generate(),
		OrgID:  f.org.ID,
		UserID: user.ID,
		Role:   role,
	}))
}

func (f *fixture) invite(t *testing.T, email string, role orgdomain.Role) *domain.Invite {
	t.Helper()
	invite, err := f.svc.Create(context.Background(), f.admin.ID, f.org.Slug, domain.CreateInviteRequest{Email: email, Role: string(role)})
	require.NoError(t, err)
	return invite
}

func (f *fixture) reload(t *testing.T, id snowflake.ID) *domain.Invite {
	t.Helper()
	invite, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return invite
}

func (f *fixture) countMembers(t *testing.T, userID snowflake.ID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&orgdomain.Member{}).Where("organization_id = ? AND user_id = ?", f.org.ID, userID).Count(&count).Error)
	return count
}

func (f *fixture) countEvents(t *testing.T, topic string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&events.DomainEvent{}).Where("topic = ?", topic).Count(&count).Error)
	return count
}

func TestCreateReturnsPendingInvite(t *testing.T) {
	f := newFixture(t)

	invite, err := f.svc.Create(context.Background(), f.admin.ID, "acme", domain.CreateInviteRequest{Email: "New@X.com", Role: "member"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, invite.Status)
	assert.Equal(t, "new@x.com", invite.Email)
	assert.Equal(t, orgdomain.RoleMember, invite.Role)
	assert.Equal(t, f.org.ID, invite.OrgID)
	require.NotNil(t, invite.InviterID)
	assert.Equal(t, f.admin.ID, *invite.InviterID)
	assert.EqualValues(t, 1, f.countEvents(t, events.InviteCreatedTopic))
}

func TestCreateRejectsSecondPendingInvite(t *testing.T) {
	f := newFixture(t)
	f.invite(t, "new@x.com", orgdomain.RoleMember)

	_, err := f.svc.Create(context.Background(), f.admin.ID, "acme", domain.CreateInviteRequest{Email: "new@x.com", Role: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrPendingInvite)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "User with this email already has a pending invite.", err.Error())

	var count int64
	require.NoError(t, f.db.Model(&domain.Invite{}).Where("email = ? AND status = ?", "new@x.com", domain.StatusPending).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateAllowsReinviteAfterRejection(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	first := f.invite(t, invitee.Email, orgdomain.RoleMember)
	_, err := f.svc.Reject(context.Background(), first.ID, invitee.ID)
	require.NoError(t, err)

	second := f.invite(t, invitee.Email, orgdomain.RoleBilling)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateRejectsExistingMember(t *testing.T) {
	f := newFixture(t)
	member := f.createUser(t, "member@x.com")
	f.addMember(t, member, orgdomain.RoleMember)

	_, err := f.svc.Create(context.Background(), f.admin.ID, "acme", domain.CreateInviteRequest{Email: "member@x.com", Role: "MEMBER"})
	assert.ErrorIs(t, err, domain.ErrMemberExists)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCreateRequiresMembershipAndPermission(t *testing.T) {
	f := newFixture(t)
	member := f.createUser(t, "member@x.com")
	f.addMember(t, member, orgdomain.RoleMember)
	outsider := f.createUser(t, "outsider@x.com")
	req := domain.CreateInviteRequest{Email: "new@x.com", Role: "MEMBER"}

	_, err := f.svc.Create(context.Background(), member.ID, "acme", req)
	assert.ErrorIs(t, err, domain.ErrCreateForbidden)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.svc.Create(context.Background(), outsider.ID, "acme", req)
	assert.ErrorIs(t, err, orgdomain.ErrNotMember)

	_, err = f.svc.Create(context.Background(), f.admin.ID, "missing", req)
	assert.ErrorIs(t, err, orgdomain.ErrOrganizationNotFound)
}

func TestCreateRejectsAutoAttachDomain(t *testing.T) {
	f := newFixture(t)
	acme := "acme.com"
	org, err := f.orgSvc.Create(context.Background(), f.admin.ID, orgdomain.CreateOrganizationRequest{
		Name:                      "Acme Corp",
		Domain:                    &acme,
		ShouldAttachUsersByDomain: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.admin.ID, org.Slug, domain.CreateInviteRequest{Email: "john@ACME.com", Role: "MEMBER"})
	assert.ErrorIs(t, err, errs.ErrBadRequest)
	assert.Equal(t, `Users with "acme.com" domain will join your organization automatically on login.`, err.Error())

	_, err = f.svc.Create(context.Background(), f.admin.ID, org.Slug, domain.CreateInviteRequest{Email: "john@partner.io", Role: "MEMBER"})
	assert.NoError(t, err)
}

func TestCreateValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.admin.ID, "acme", domain.CreateInviteRequest{Email: "new@x.com", Role: "OWNER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = f.svc.Create(context.Background(), f.admin.ID, "acme", domain.CreateInviteRequest{Email: "nope", Role: "MEMBER"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestAcceptCreatesMembershipWithInviteRole(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleBilling)

	require.NoError(t, f.svc.Accept(context.Background(), invitee.ID, invite.ID))

	member, err := f.orgRepo.FindMember(context.Background(), f.org.ID, invitee.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, orgdomain.RoleBilling, member.Role)
	assert.Equal(t, domain.StatusAccepted, f.reload(t, invite.ID).Status)
	assert.EqualValues(t, 1, f.countEvents(t, events.InviteAcceptedTopic))
}

func TestAcceptTwiceFailsWithoutSecondMembership(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleMember)

	require.NoError(t, f.svc.Accept(context.Background(), invitee.ID, invite.ID))
	err := f.svc.Accept(context.Background(), invitee.ID, invite.ID)

	assert.ErrorIs(t, err, domain.ErrInviteNotValid)
	assert.EqualValues(t, 1, f.countMembers(t, invitee.ID))
}

func TestAcceptRejectsEmailMismatch(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "invitee@x.com")
	intruder := f.createUser(t, "intruder@x.com")
	invite := f.invite(t, "invitee@x.com", orgdomain.RoleAdmin)

	err := f.svc.Accept(context.Background(), intruder.ID, invite.ID)

	assert.ErrorIs(t, err, errs.ErrBadRequest)
	assert.Equal(t, "You can only accept invites sent to your email address.", err.Error())
	assert.Equal(t, domain.StatusPending, f.reload(t, invite.ID).Status)
	assert.Zero(t, f.countMembers(t, intruder.ID))
}

func TestAcceptByExistingMemberRetiresInvite(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleAdmin)
	f.addMember(t, invitee, orgdomain.RoleMember)

	err := f.svc.Accept(context.Background(), invitee.ID, invite.ID)

	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	assert.Equal(t, domain.StatusAccepted, f.reload(t, invite.ID).Status)
	assert.EqualValues(t, 1, f.countMembers(t, invitee.ID))
}

func TestAcceptUnknownInvite(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Accept(context.Background(), f.admin.ID, snowflake.ID(12345))
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAcceptUnknownUser(t *testing.T) {
	f := newFixture(t)
	invite := f.invite(t, "ghost@x.com", orgdomain.RoleMember)

	err := f.svc.Accept(context.Background(), snowflake.ID(999), invite.ID)
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
}

func TestAcceptIsAtomic(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleMember)

	errBoom := errors.New("boom")
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_invite_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "invites" {
			_ = tx.AddError(errBoom)
		}
	}))

	err := f.svc.Accept(context.Background(), invitee.ID, invite.ID)
	require.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, db.ErrOperationFailed)

	assert.Zero(t, f.countMembers(t, invitee.ID))
	assert.Equal(t, domain.StatusPending, f.reload(t, invite.ID).Status)
	assert.Zero(t, f.countEvents(t, events.InviteAcceptedTopic))
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	other := f.createUser(t, "other@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleMember)

	_, err := f.svc.Reject(context.Background(), invite.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrRejectEmailMismatch)

	rejected, err := f.svc.Reject(context.Background(), invite.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Zero(t, f.countMembers(t, invitee.ID))

	_, err = f.svc.Reject(context.Background(), snowflake.ID(1), invitee.ID)
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestTerminalInvitesCannotBeMutated(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleMember)
	_, err := f.svc.Reject(context.Background(), invite.ID, invitee.ID)
	require.NoError(t, err)

	err = f.svc.Accept(context.Background(), invitee.ID, invite.ID)
	assert.ErrorIs(t, err, domain.ErrInviteNotValid)

	_, err = f.svc.Reject(context.Background(), invite.ID, invitee.ID)
	assert.ErrorIs(t, err, domain.ErrInviteNotValid)

	err = f.svc.Revoke(context.Background(), invite.ID, f.org.Slug, f.admin.ID)
	assert.ErrorIs(t, err, domain.ErrRevokeNotPending)

	assert.Equal(t, domain.StatusRejected, f.reload(t, invite.ID).Status)
}

func TestRevokeDeletesPendingInvite(t *testing.T) {
	f := newFixture(t)
	invite := f.invite(t, "new@x.com", orgdomain.RoleMember)

	require.NoError(t, f.svc.Revoke(context.Background(), invite.ID, f.org.Slug, f.admin.ID))

	assert.Nil(t, f.reload(t, invite.ID))
	assert.EqualValues(t, 1, f.countEvents(t, events.InviteRevokedTopic))
}

func TestRevokeAcceptedInviteKeepsRecord(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	invite := f.invite(t, invitee.Email, orgdomain.RoleMember)
	require.NoError(t, f.svc.Accept(context.Background(), invitee.ID, invite.ID))

	err := f.svc.Revoke(context.Background(), invite.ID, f.org.Slug, f.admin.ID)

	assert.ErrorIs(t, err, errs.ErrBadRequest)
	assert.Equal(t, "Only pending invites can be revoked.", err.Error())
	assert.NotNil(t, f.reload(t, invite.ID))
}

func TestRevokeChecksPermissionAndScope(t *testing.T) {
	f := newFixture(t)
	member := f.createUser(t, "member@x.com")
	f.addMember(t, member, orgdomain.RoleMember)
	invite := f.invite(t, "new@x.com", orgdomain.RoleMember)

	err := f.svc.Revoke(context.Background(), invite.ID, f.org.Slug, member.ID)
	assert.ErrorIs(t, err, domain.ErrRevokeForbidden)

	other, err := f.orgSvc.Create(context.Background(), f.admin.ID, orgdomain.CreateOrganizationRequest{Name: "Other"})
	require.NoError(t, err)
	err = f.svc.Revoke(context.Background(), invite.ID, other.Slug, f.admin.ID)
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)

	assert.NotNil(t, f.reload(t, invite.ID))
}

func TestReadPaths(t *testing.T) {
	f := newFixture(t)
	invitee := f.createUser(t, "invitee@x.com")
	first := f.invite(t, invitee.Email, orgdomain.RoleMember)
	other, err := f.orgSvc.Create(context.Background(), f.admin.ID, orgdomain.CreateOrganizationRequest{Name: "Other"})
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), f.admin.ID, other.Slug, domain.CreateInviteRequest{Email: invitee.Email, Role: "ADMIN"})
	require.NoError(t, err)

	detail, err := f.svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", detail.Organization.Slug)
	require.NotNil(t, detail.Inviter)
	assert.Equal(t, f.admin.ID, detail.Inviter.ID)

	_, err = f.svc.Get(context.Background(), snowflake.ID(1))
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)

	pending, err := f.svc.ListPending(context.Background(), invitee.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, first.ID, pending[1].ID)

	listed, err := f.svc.ListByOrganization(context.Background(), f.org.Slug, f.admin.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	f.addMember(t, invitee, orgdomain.RoleMember)
	_, err = f.svc.ListByOrganization(context.Background(), f.org.Slug, invitee.ID)
	assert.ErrorIs(t, err, domain.ErrListForbidden)
}
