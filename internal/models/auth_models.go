package models

import "time"

// User is an operator allowed to log in.
type User struct {
	ID           int64  `json:"id_usuario"`
	Username     string `json:"nombre_usuario"`
	PasswordHash string `json:"-"` // never sent
	Active       bool   `json:"activo"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expira_en"`
	User      *User     `json:"usuario"`
}
