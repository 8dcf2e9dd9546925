package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"github.com/rafaelbertelli/next-saas-rbac-sub000/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) domain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user domain.User) error {
	return db.Wrap("user.create", r.db.WithContext(ctx).Create(&user).Error)
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return r.findOne(ctx, "user.find_by_id", "id = ?", id)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "user.find_by_email", "email = ?", email)
}

func (r *repository) findOne(ctx context.Context, op string, query string, args ...any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Wrap(op, err)
	}
	return &user, nil
}
