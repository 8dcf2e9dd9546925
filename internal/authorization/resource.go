package authorization

import "github.com/bwmarrin/snowflake"

// Action is a verb checked against a resource.
type Action string

const (
	ActionManage            Action = "manage"
	ActionCreate            Action = "create"
	ActionGet               Action = "get"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionTransferOwnership Action = "transfer_ownership"
)

// Resource is anything a permission can be evaluated against.
type Resource interface {
	subject() Subject
	ownedBy(userID snowflake.ID) bool
}

// Subject is a resource type tag used for collection-level checks.
type Subject string

const (
	SubjectAll          Subject = "all"
	SubjectUser         Subject = "User"
	SubjectOrganization Subject = "Organization"
	SubjectInvite       Subject = "Invite"
	SubjectProject      Subject = "Project"
	SubjectBilling      Subject = "Billing"
)

func (s Subject) subject() Subject { return s }

// Type-level checks do not evaluate ownership conditions, so a conditional
// rule counts as matching.
func (Subject) ownedBy(snowflake.ID) bool { return true }

// OrganizationResource is an organization instance for ownership-aware checks.
type OrganizationResource struct {
	ID      snowflake.ID
	OwnerID snowflake.ID
}

func (OrganizationResource) subject() Subject { return SubjectOrganization }

func (o OrganizationResource) ownedBy(userID snowflake.ID) bool {
	return o.OwnerID != 0 && o.OwnerID == userID
}

// ProjectResource is a project instance for ownership-aware checks.
type ProjectResource struct {
	ID      snowflake.ID
	OwnerID snowflake.ID
}

func (ProjectResource) subject() Subject { return SubjectProject }

func (p ProjectResource) ownedBy(userID snowflake.ID) bool {
	return p.OwnerID != 0 && p.OwnerID == userID
}
