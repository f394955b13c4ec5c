// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в crypto, service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Неверные учётные данные (не уточняем, что именно неверно: логин или пароль)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например username уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Конкретизация ErrAlreadyExists по нарушенному уникальному ключу
	ErrDuplicateUserName = fmt.Errorf("%w: user name", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
	// неожидаемая ошибка
	ErrUnexpectedError = errors.New("unexpected error")
)

// ошибки целостности токена: всегда фатальны для запроса и логируются как security-событие
var (
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")
	ErrMalformedToken       = errors.New("malformed token")
	ErrTokenExpired         = errors.New("token expired")
	ErrInvalidClaims        = errors.New("invalid token claims")
	ErrWeakSigningKey       = errors.New("signing key is too weak")
)

// ошибки состояния refresh-хэндла: клиент должен заново пройти login
var (
	ErrMissingRefreshHandle = errors.New("missing refresh token")
	ErrUnknownRefreshHandle = errors.New("unknown refresh token")
	ErrRefreshHandleExpired = errors.New("refresh token expired")
)

var (
	// Не удалось прочитать/записать данные identity в хранилище
	ErrPersistence = errors.New("persistence failure")
	// Регистрационные данные не прошли валидацию (см. ValidationErrors)
	ErrValidation = errors.New("validation failed")
)
