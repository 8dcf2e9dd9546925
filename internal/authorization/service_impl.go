// Package authorization evaluates role permissions with casbin.
package authorization

import (
	_ "embed"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	//go:embed model.conf
	modelText string
	//go:embed policy.csv
	policyText string
)

const (
	ownOwner = "owner"
	ownOther = "other"
)

// NewEnforcer loads the policy table from the configured store.
func NewEnforcer(cfg config.Config, conn *gorm.DB) (*casbin.SyncedEnforcer, error) {
	if cfg.AuthzPolicyStore != config.PolicyStoreDatabase {
		return NewEmbeddedEnforcer()
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	adapter, err := gormadapter.NewAdapterByDB(conn)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// NewEmbeddedEnforcer builds an enforcer over the compiled-in policy table.
func NewEmbeddedEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	return casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(policyText))
}

// seedPolicies writes the embedded rules, in order, into an empty store.
// Rule order is significant under the priority effect.
func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	existing, err := enforcer.GetPolicy()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	enforcer.EnableAutoSave(true)
	for _, rule := range parsePolicyText(policyText) {
		if _, err := enforcer.AddPolicy(rule); err != nil {
			return err
		}
	}
	return nil
}

func parsePolicyText(text string) [][]string {
	var rules [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 || strings.TrimSpace(fields[0]) != "p" {
			continue
		}
		rule := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			rule = append(rule, strings.TrimSpace(f))
		}
		rules = append(rules, rule)
	}
	return rules
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewService(log *zap.Logger, enforcer *casbin.SyncedEnforcer) Service {
	return &ServiceImpl{
		log:      log.Named("authorization.service"),
		enforcer: enforcer,
	}
}

func (s *ServiceImpl) For(userID snowflake.ID, role string) Ability {
	return &ability{
		svc:    s,
		userID: userID,
		role:   strings.ToLower(strings.TrimSpace(role)),
	}
}

type ability struct {
	svc    *ServiceImpl
	userID snowflake.ID
	role   string
}

func (a *ability) Can(action Action, resource Resource) bool {
	if resource == nil || a.role == "" {
		return false
	}
	own := ownOther
	if resource.ownedBy(a.userID) {
		own = ownOwner
	}
	allowed, err := a.svc.enforcer.Enforce(a.role, string(resource.subject()), string(action), own)
	if err != nil {
		a.svc.log.Warn("permission evaluation failed",
			zap.String("role", a.role),
			zap.String("action", string(action)),
			zap.String("subject", string(resource.subject())),
			zap.Error(err),
		)
		return false
	}
	return allowed
}

func (a *ability) Cannot(action Action, resource Resource) bool {
	return !a.Can(action, resource)
}
