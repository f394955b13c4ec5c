// Package models содержит DTO HTTP API, общие для сервера и CLI-агента.
package models

import (
	"time"

	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
)

// LoginRequest — тело запроса входа.
//
// Используется в:
//
//	POST /auth/login
type LoginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest — тело запроса регистрации.
//
// Используется в:
//
//	POST /auth/register
//
// Поля FirstName/LastName/PhoneNumber относятся к профилю и необязательны.
type RegisterRequest struct {
	UserName    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// AuthResponse — прикладной конверт ответа login/register/refresh/logout.
//
// Сами токены в конверт не попадают, они уходят только в cookies.
// Клиенту возвращаются лишь сроки их жизни.
type AuthResponse struct {
	IsSuccess             bool                   `json:"is_success"`
	Message               string                 `json:"message,omitempty"`
	Errors                []serr.ValidationError `json:"errors,omitempty"`
	AccessTokenExpiresAt  *time.Time             `json:"access_token_expires_at,omitempty"`
	RefreshTokenExpiresAt *time.Time             `json:"refresh_token_expires_at,omitempty"`
}

// MeResponse — данные текущего пользователя из claims access-токена.
//
// Используется в:
//
//	GET /auth/me
type MeResponse struct {
	UserName string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
