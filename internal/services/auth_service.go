package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrUsernameExists     = errors.New("username already exists")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(ctx context.Context, username, password string) (*models.User, error)
	LoginUser(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	authRepo repositories.AuthRepository
	pool     ConnProvider
	tokens   *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, pool ConnProvider, tokens *utils.TokenManager) AuthService {
	return &authService{authRepo: authRepo, pool: pool, tokens: tokens}
}

// HashPassword returns the bcrypt hash stored in usuarios.contrasena_hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// RegisterUser creates an active user. Used by the seeding command.
func (s *authService) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var id int64
	err = withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		id, err = s.authRepo.CreateUser(ctx, exec, username, hashed)
		return err
	})
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return nil, ErrUsernameExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return &models.User{ID: id, Username: username, Active: true}, nil
}

// LoginUser checks the password first, then the active flag, so only a holder of
// the right password learns that an account is disabled.
func (s *authService) LoginUser(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var user *models.User
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		user, err = s.authRepo.FindUserByUsername(ctx, exec, strings.TrimSpace(creds.Username))
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	user.PasswordHash = ""
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User
	err := withConn(ctx, s.pool, func(exec repositories.SQLExecutor) error {
		var err error
		user, err = s.authRepo.FindUserByID(ctx, exec, userID)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
