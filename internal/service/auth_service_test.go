package service

import (
	"context"
	"testing"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.Role{Name: model.RoleViewer}).Error)
	return db
}

func TestRegister_CreatesViewerAccount(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{
		Username: "fan",
		Email:    "fan@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, model.RoleViewer, resp.User.Role.Name)
	assert.NotEqual(t, "supersecret", resp.User.PasswordHash)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	input := RegisterInput{Username: "fan", Email: "fan@example.com", Password: "supersecret"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	input.Username = "otherfan"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegister_RejectsDuplicateUsername(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "fan", Email: "fan@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "fan", Email: "other@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin_VerifiesPassword(t *testing.T) {
	db := setupAuthDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "fan", Email: "fan@example.com", Password: "supersecret"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginInput{Email: "fan@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Email: "fan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
