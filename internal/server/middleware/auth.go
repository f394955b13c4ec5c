// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// claimsKey — ключ контекста, под которым хранятся claims аутентифицированного пользователя.
const claimsKey ctxKey = "claims"

// AccessVerifier проверяет access-токены на защищённых маршрутах.
//
// Токен берётся из access-cookie, а если её нет, из заголовка
// Authorization: Bearer <token> (CLI и прочие не-браузерные клиенты).
type AccessVerifier struct {
	codec      *crypto.Codec
	cookieName string
	rec        *metrics.Recorder
	log        *logger.HTTPLogger
}

// NewAccessVerifier создаёт AccessVerifier. rec и log могут быть nil.
func NewAccessVerifier(codec *crypto.Codec, cookieName string, rec *metrics.Recorder, log *logger.HTTPLogger) *AccessVerifier {
	if log == nil {
		log = logger.Nop()
	}
	return &AccessVerifier{codec: codec, cookieName: cookieName, rec: rec, log: log}
}

// ClaimsFromContext извлекает claims аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - claims
//   - false, если пользователь не аутентифицирован
func ClaimsFromContext(ctx context.Context) (crypto.ClaimSet, bool) {
	c, ok := ctx.Value(claimsKey).(crypto.ClaimSet)
	return c, ok
}

// WithClaims кладёт claims в контекст (используется в тестах обработчиков).
func WithClaims(ctx context.Context, c crypto.ClaimSet) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// AuthMiddleware возвращает HTTP middleware для проверки access-токенов.
//
// Middleware:
//   - достаёт токен из cookie или заголовка Authorization
//   - проверяет подпись, алгоритм, iss, aud и срок жизни
//   - сохраняет claims в context.Context
//
// В случае ошибки возвращает HTTP 401 Unauthorized. Нарушения целостности
// токена пишутся в лог как security-события.
func (v *AccessVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := v.TokenFrom(r)
			if token == "" {
				http.Error(w, "missing access token", http.StatusUnauthorized)
				return
			}

			claims, err := v.codec.ValidateAndDecode(token)
			if err != nil {
				reason := RejectReason(err)
				v.rec.TokenRejected(reason)

				if errors.Is(err, serr.ErrTokenExpired) {
					http.Error(w, "token expired", http.StatusUnauthorized)
					return
				}
				v.log.LogSecurityEvent("access_token_rejected", err,
					zap.String("uri", r.RequestURI),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// TokenFrom достаёт access-токен из cookie или заголовка Authorization.
func (v *AccessVerifier) TokenFrom(r *http.Request) string {
	if v.cookieName != "" {
		if c, err := r.Cookie(v.cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ExtractBearer(r.Header.Get("Authorization"))
}

// RejectReason — метка причины отказа для метрик.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, serr.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, serr.ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case errors.Is(err, serr.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, serr.ErrTokenExpired):
		return "expired"
	default:
		return "invalid_claims"
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
