package invite

import (
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/repository"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
