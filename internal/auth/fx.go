package auth

import (
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(token.NewManager),
)
