// Package migration creates the schema for the configured database.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/config"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/events"
	invitedomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
	orgdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the application, in dependency order.
func Models() []any {
	return []any{
		&userdomain.User{},
		&orgdomain.Organization{},
		&orgdomain.Member{},
		&invitedomain.Invite{},
		&events.DomainEvent{},
	}
}

// Run applies the SQL migrations on postgres and falls back to AutoMigrate elsewhere.
func Run(conn *gorm.DB, cfg config.Config) error {
	if strings.ToLower(strings.TrimSpace(cfg.DBType)) != db.TypePostgres {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func source() (fs.FS, error) {
	return fs.Sub(embeddedMigrations, migrationsDir)
}

func RunMigrations(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := source()
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	src, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}
