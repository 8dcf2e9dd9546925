package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/auth/token"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/config"
	invitedomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability"
	obslogger "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability/logger"
	obsmetrics "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability/metrics"
	obstracing "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability/tracing"
	organizationdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/ratelimit"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the json field name.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	log             *zap.Logger
	tokens          *token.Manager
	userSvc         userdomain.Service
	organizationSvc organizationdomain.Service
	inviteSvc       invitedomain.Service
	inviteLimiter   *ratelimit.InviteLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Log             *zap.Logger
	Tokens          *token.Manager
	UserSvc         userdomain.Service
	OrganizationSvc organizationdomain.Service
	InviteSvc       invitedomain.Service
	InviteLimiter   *ratelimit.InviteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		log:             p.Log,
		tokens:          p.Tokens,
		userSvc:         p.UserSvc,
		organizationSvc: p.OrganizationSvc,
		inviteSvc:       p.InviteSvc,
		inviteLimiter:   p.InviteLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerInviteRoutes()
	svc.registerOrganizationRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")
	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
}

func (s *Server) registerInviteRoutes() {
	// public: the accept page renders an invite before the visitor signs in
	s.engine.GET("/invites/:inviteId", s.GetInvite)

	authed := s.engine.Group("", s.AuthRequired())
	authed.GET("/pending-invites", s.ListPendingInvites)
	authed.POST("/invites/:inviteId/accept", s.AcceptInvite)
	authed.POST("/invites/:inviteId/reject", s.RejectInvite)
}

func (s *Server) registerOrganizationRoutes() {
	orgs := s.engine.Group("/organizations", s.AuthRequired())
	orgs.POST("", s.CreateOrganization)
	orgs.GET("", s.ListOrganizations)
	orgs.GET("/:slug/membership", s.GetMembership)
	orgs.PATCH("/:slug/owner", s.TransferOrganization)

	orgs.POST("/:slug/invites", s.InviteCreateRateLimit(), s.CreateInvite)
	orgs.GET("/:slug/invites", s.ListOrganizationInvites)
	orgs.DELETE("/:slug/invites/:inviteId", s.RevokeInvite)
}
