// Package service содержит бизнес-логику сессий: выпуск и ротацию токенов,
// вход и регистрацию.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/models"
)

// IdentityStore — то, что SessionManager ожидает от хранилища identity.
//
// Реализация хранит refresh-токен так, чтобы его можно было найти
// только по предъявленному значению; у identity не больше одного активного
// refresh-токена.
type IdentityStore interface {
	// VerifyPassword проверяет пароль. Неверные данные → (_, false, nil).
	VerifyPassword(ctx context.Context, userName, password string) (models.Identity, bool, error)
	// CreateIdentity регистрирует пользователя с ролями.
	// Ошибки валидации возвращаются как serr.ValidationErrors.
	CreateIdentity(ctx context.Context, data models.RegistrationData, roles []string, autoConfirm bool) (models.Identity, error)
	GetRoles(ctx context.Context, id uuid.UUID) ([]string, error)
	// UpdateRefreshFields заменяет refresh-токен; expiry == nil оставляет прежний срок.
	UpdateRefreshFields(ctx context.Context, id uuid.UUID, handle string, expiry *time.Time) error
	FindByRefreshHandle(ctx context.Context, handle string) (models.Identity, error)
	FindByUserName(ctx context.Context, userName string) (models.Identity, error)
	ClearRefreshFields(ctx context.Context, id uuid.UUID) error
}

// UsersRepo — репозиторий пользователей (нужен IdentityManager).
type UsersRepo interface {
	Create(ctx context.Context, u models.Identity, roles []string) error
	GetByUserName(ctx context.Context, normalizedUserName string) (models.Identity, error)
	GetByEmail(ctx context.Context, normalizedEmail string) (models.Identity, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Identity, error)
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	UpdateRefresh(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiry *time.Time) error
	ClearRefresh(ctx context.Context, userID uuid.UUID) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error
}
