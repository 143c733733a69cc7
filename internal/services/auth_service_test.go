package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *mockAuthRepo, *utils.TokenManager) {
	pool, _ := newTestPool(t)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	repo := &mockAuthRepo{}
	return NewAuthService(repo, pool, tokens), repo, tokens
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLoginUser(t *testing.T) {
	svc, repo, tokens := newAuthFixture(t)
	repo.On("FindUserByUsername", mock.Anything, mock.Anything, "admin").Return(&models.User{
		ID: 1, Username: "admin", PasswordHash: hashed(t, "s3cret"), Active: true,
	}, nil)

	resp, err := svc.LoginUser(context.Background(), models.Credentials{Username: " admin ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Empty(t, resp.User.PasswordHash)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginUserFailures(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.On("FindUserByUsername", mock.Anything, mock.Anything, "ghost").Return(nil, repositories.ErrNotFound)
	repo.On("FindUserByUsername", mock.Anything, mock.Anything, "off").Return(&models.User{
		ID: 2, Username: "off", PasswordHash: hashed(t, "pw"), Active: false,
	}, nil)

	_, err := svc.LoginUser(context.Background(), models.Credentials{Username: "ghost", Password: "x"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.LoginUser(context.Background(), models.Credentials{Username: "off", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.LoginUser(context.Background(), models.Credentials{Username: "off", Password: "pw"})
	assert.True(t, errors.Is(err, ErrInactiveUser))
}

func TestRegisterUserDuplicate(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.On("CreateUser", mock.Anything, mock.Anything, "admin", mock.AnythingOfType("string")).Return(int64(0), repositories.ErrDuplicateKey)

	_, err := svc.RegisterUser(context.Background(), "admin", "pw")
	assert.True(t, errors.Is(err, ErrUsernameExists))

	_, err = svc.RegisterUser(context.Background(), " ", "pw")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestHashPasswordVerifies(t *testing.T) {
	h, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("admin123")))
}
