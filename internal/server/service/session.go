package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
)

// TokenPair — результат успешного входа, регистрации или refresh.
//
// RefreshExpiresAt нулевой, если у identity нет сохранённого срока.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshHandle    string
	RefreshExpiresAt time.Time
}

// SessionManager выпускает и ротирует пары токенов.
//
// Своего состояния не держит: всё, что переживает запрос, лежит в IdentityStore.
type SessionManager struct {
	store IdentityStore
	codec *crypto.Codec
	rec   *metrics.Recorder
	log   *logger.HTTPLogger

	refreshExpiryDays int
	defaultRoles      []string
	autoConfirm       bool

	now func() time.Time
}

// NewSessionManager создаёт SessionManager. rec может быть nil (метрики выключены).
func NewSessionManager(store IdentityStore, codec *crypto.Codec, cfg *config.Config, rec *metrics.Recorder, log *logger.HTTPLogger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{
		store:             store,
		codec:             codec,
		rec:               rec,
		log:               log,
		refreshExpiryDays: cfg.Auth.RefreshExpiryDays,
		defaultRoles:      append([]string{}, cfg.Auth.DefaultRoles...),
		autoConfirm:       cfg.Auth.AutoConfirmEmail,
		now:               time.Now,
	}
}

// IssueTokenPair выпускает новую пару токенов для identity.
//
// Новый refresh-токен сохраняется в хранилище до того, как пара будет
// возвращена; прежний токен identity при этом перестаёт работать.
// refreshExpiryDays <= 0 оставляет сохранённый срок жизни refresh-токена.
//
// Ошибка хранилища → ErrPersistence, пара не возвращается.
func (s *SessionManager) IssueTokenPair(ctx context.Context, identity models.Identity, refreshExpiryDays int) (TokenPair, error) {
	return s.issue(ctx, identity, refreshExpiryDays, metrics.ReasonIssue)
}

// RefreshTokenPair меняет предъявленный refresh-токен на новую пару.
//
// Ошибки:
//   - ErrUnknownRefreshHandle — токен не найден (подделан или уже использован);
//   - ErrRefreshHandleExpired — срок истёк или не задан (в хранилище ничего не меняется);
//   - ErrPersistence — ошибка хранилища.
func (s *SessionManager) RefreshTokenPair(ctx context.Context, presented string) (TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		s.rejectRefresh("unknown", serr.ErrUnknownRefreshHandle)
		return TokenPair{}, serr.ErrUnknownRefreshHandle
	}

	identity, err := s.store.FindByRefreshHandle(ctx, presented)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			s.rejectRefresh("unknown", serr.ErrUnknownRefreshHandle)
			return TokenPair{}, serr.ErrUnknownRefreshHandle
		}
		return TokenPair{}, asPersistence(err)
	}

	if identity.RefreshTokenExpiry == nil || !identity.RefreshTokenExpiry.After(s.now()) {
		s.rejectRefresh("expired", serr.ErrRefreshHandleExpired, zap.String("user_id", identity.ID.String()))
		return TokenPair{}, serr.ErrRefreshHandleExpired
	}

	return s.issue(ctx, identity, s.refreshExpiryDays, metrics.ReasonRefresh)
}

// SignIn проверяет учётные данные. Неверные данные → (_, false, nil);
// ошибка возвращается только при сбое хранилища.
func (s *SessionManager) SignIn(ctx context.Context, userName, password string) (models.Identity, bool, error) {
	identity, ok, err := s.store.VerifyPassword(ctx, userName, password)
	switch {
	case err != nil:
		s.rec.SignIn(metrics.ResultError)
		return models.Identity{}, false, asPersistence(err)
	case !ok:
		s.rec.SignIn(metrics.ResultFailure)
		s.log.LogSecurityEvent("sign_in_failed", serr.ErrInvalidCredentials)
		return models.Identity{}, false, nil
	}

	s.rec.SignIn(metrics.ResultSuccess)
	return identity, true, nil
}

// Register создаёт identity с ролями по умолчанию.
// Ошибки валидации приходят как serr.ValidationErrors.
func (s *SessionManager) Register(ctx context.Context, data models.RegistrationData) (models.Identity, error) {
	identity, err := s.store.CreateIdentity(ctx, data, s.defaultRoles, s.autoConfirm)
	if err != nil {
		if errors.Is(err, serr.ErrValidation) {
			return models.Identity{}, err
		}
		return models.Identity{}, asPersistence(err)
	}
	return identity, nil
}

// SignOut отзывает refresh-токен пользователя.
//
// Уже выданные access-токены остаются валидными до своего exp.
// Неизвестный пользователь ошибкой не считается.
func (s *SessionManager) SignOut(ctx context.Context, userName string) error {
	identity, err := s.store.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil
		}
		return asPersistence(err)
	}

	if err := s.store.ClearRefreshFields(ctx, identity.ID); err != nil && !errors.Is(err, serr.ErrNotFound) {
		return asPersistence(err)
	}
	return nil
}

func (s *SessionManager) issue(ctx context.Context, identity models.Identity, refreshExpiryDays int, reason string) (TokenPair, error) {
	roles, err := s.store.GetRoles(ctx, identity.ID)
	if err != nil {
		return TokenPair{}, asPersistence(err)
	}

	access, accessExp, err := s.codec.GenerateAccessToken(crypto.NewClaimSet(identity.UserName, identity.Email, roles))
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	handle, err := crypto.NewRefreshHandle()
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	var expiry *time.Time
	if refreshExpiryDays > 0 {
		t := s.now().Add(time.Duration(refreshExpiryDays) * 24 * time.Hour).UTC()
		expiry = &t
	}

	if err := s.store.UpdateRefreshFields(ctx, identity.ID, handle, expiry); err != nil {
		return TokenPair{}, asPersistence(err)
	}

	pair := TokenPair{
		AccessToken:     access,
		AccessExpiresAt: accessExp,
		RefreshHandle:   handle,
	}
	switch {
	case expiry != nil:
		pair.RefreshExpiresAt = *expiry
	case identity.RefreshTokenExpiry != nil:
		pair.RefreshExpiresAt = *identity.RefreshTokenExpiry
	}

	s.rec.TokenPairIssued(reason)
	return pair, nil
}

func (s *SessionManager) rejectRefresh(reason string, err error, fields ...zap.Field) {
	s.rec.RefreshRejected(reason)
	s.log.LogSecurityEvent("refresh_rejected", err, fields...)
}

// asPersistence приводит ошибку хранилища к ErrPersistence, сохраняя причину.
func asPersistence(err error) error {
	if errors.Is(err, serr.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", serr.ErrPersistence, err)
}
