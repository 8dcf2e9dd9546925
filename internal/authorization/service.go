package authorization

import "github.com/bwmarrin/snowflake"

// Service builds capability evaluators for a member of an organization.
type Service interface {
	For(userID snowflake.ID, role string) Ability
}

// Ability answers whether its holder may perform an action on a resource.
type Ability interface {
	Can(action Action, resource Resource) bool
	Cannot(action Action, resource Resource) bool
}
