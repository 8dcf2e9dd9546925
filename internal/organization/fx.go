package organization

import (
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/repository"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
