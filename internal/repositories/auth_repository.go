package repositories

import (
	"context"
	"fmt"

	"techdesk_backend/internal/models"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, exec SQLExecutor, username, hashedPassword string) (int64, error)
	FindUserByUsername(ctx context.Context, exec SQLExecutor, username string) (*models.User, error)
	FindUserByID(ctx context.Context, exec SQLExecutor, userID int64) (*models.User, error)
}

type authRepository struct{}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository() AuthRepository {
	return &authRepository{}
}

// CreateUser inserts an active user with an already hashed password.
func (r *authRepository) CreateUser(ctx context.Context, exec SQLExecutor, username, hashedPassword string) (int64, error) {
	query := `INSERT INTO usuarios (nombre_usuario, contrasena_hash, activo)
	          VALUES ($1, $2, TRUE)
	          RETURNING id_usuario`
	var userID int64
	if err := exec.QueryRowContext(ctx, query, username, hashedPassword).Scan(&userID); err != nil {
		return 0, wrapError(err, "creating user")
	}
	return userID, nil
}

// FindUserByUsername retrieves a user, password hash included.
func (r *authRepository) FindUserByUsername(ctx context.Context, exec SQLExecutor, username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id_usuario, nombre_usuario, contrasena_hash, activo FROM usuarios WHERE nombre_usuario = $1`
	err := exec.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Active)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("finding user %q", username))
	}
	return user, nil
}

func (r *authRepository) FindUserByID(ctx context.Context, exec SQLExecutor, userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id_usuario, nombre_usuario, contrasena_hash, activo FROM usuarios WHERE id_usuario = $1`
	err := exec.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Active)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("finding user %d", userID))
	}
	return user, nil
}
