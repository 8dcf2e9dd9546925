package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pgconn", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "pgconn other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "mysql message", err: errors.New("Error 1062: Duplicate entry"), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyErr(tc.err))
		})
	}
}

func TestWrapKeepsUnderlyingError(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap("invite.create", base)

	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "invite.create")
	assert.NoError(t, Wrap("invite.create", nil))
}

func TestNewTestIsolatesDatabases(t *testing.T) {
	type row struct {
		ID   int64 `gorm:"primaryKey"`
		Name string
	}

	first, err := NewTest()
	assert.NoError(t, err)
	second, err := NewTest()
	assert.NoError(t, err)

	assert.NoError(t, first.AutoMigrate(&row{}))
	assert.NoError(t, first.Create(&row{ID: 1, Name: "a"}).Error)

	assert.False(t, second.Migrator().HasTable(&row{}))
}
