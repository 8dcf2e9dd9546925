package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/auth"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/authorization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/config"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/migration"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/observability"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/ratelimit"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/server"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	root := &cobra.Command{
		Use:   "saas",
		Short: "Multi-tenant organization, invite and permission service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			fx.New(
				// Core Infrastructure
				config.Module,
				observability.Module,
				fx.Provide(RegisterSnowflake),
				db.Module,
				migration.Module,

				// Functional Domains
				auth.Module,
				authorization.Module,
				events.Module,
				ratelimit.Module,
				user.Module,
				organization.Module,
				invite.Module,

				server.Module,
			).Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				migration.Module,
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := app.Start(ctx); err != nil {
				return err
			}
			return app.Stop(ctx)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "maximum time allowed for migrations")
	return cmd
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
