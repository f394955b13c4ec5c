// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity — учётная запись в хранилище.
//
// Хэш refresh-токена наружу из репозитория не отдаётся, только срок его жизни.
// RefreshTokenExpiry == nil означает, что активного refresh-токена нет.
type Identity struct {
	ID                 uuid.UUID
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	EmailConfirmed     bool
	PasswordHash       string
	FirstName          string
	LastName           string
	PhoneNumber        string
	RefreshTokenExpiry *time.Time
	CreatedAt          time.Time
}

// RegistrationData — данные регистрации после разбора запроса.
type RegistrationData struct {
	UserName    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}
