// Package crypto содержит криптографические примитивы сервера сессий.
//
// В частности, пакет отвечает за:
//   - ключ подписи access-токенов;
//   - выпуск, проверку и декодирование JWT (только HS256);
//   - генерацию и хэширование refresh-токенов;
//   - хэширование паролей (argon2id).
package crypto

import (
	"encoding/base64"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
)

// ClaimSet — прикладные claims access-токена.
type ClaimSet struct {
	// Subject — имя пользователя (sub).
	Subject string
	Email   string
	Roles   []string
}

// NewClaimSet собирает claims для identity. Роли копируются.
func NewClaimSet(userName, email string, roles []string) ClaimSet {
	return ClaimSet{
		Subject: userName,
		Email:   email,
		Roles:   append([]string{}, roles...),
	}
}

// accessClaims — то, что реально лежит в payload токена.
type accessClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// CodecConfig описывает параметры выпуска access-токенов.
type CodecConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// AccessExpiryMinutes — срок жизни access-токена в минутах.
	AccessExpiryMinutes int
}

// CodecOption настраивает Codec.
type CodecOption func(*Codec)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec выпускает и проверяет access-токены.
// Состояния между вызовами нет, методы безопасны для конкурентного использования.
type Codec struct {
	key SigningKey
	cfg CodecConfig
	now func() time.Time
}

// NewCodec создаёт кодек поверх ключа подписи.
func NewCodec(key SigningKey, cfg CodecConfig, opts ...CodecOption) *Codec {
	c := &Codec{key: key, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateAccessToken подписывает HS256-токен для claims.
//
// Payload содержит sub, email, roles и стандартные iss, aud, iat, exp, jti.
// Вторым значением возвращается момент истечения (с точностью до секунды,
// ровно как он записан в exp).
func (c *Codec) GenerateAccessToken(claims ClaimSet) (string, time.Time, error) {
	now := c.now()
	exp := jwt.NewNumericDate(now.Add(time.Duration(c.cfg.AccessExpiryMinutes) * time.Minute))

	payload := accessClaims{
		Email: claims.Email,
		Roles: append([]string{}, claims.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   claims.Subject,
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.key.bytes())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp.Time, nil
}

// ValidateAndDecode проверяет подпись, алгоритм, iss, aud и срок жизни.
//
// Ошибки:
//   - ErrMalformedToken — не три сегмента или header/payload не base64url;
//   - ErrUnsupportedAlgorithm — в заголовке не HS256 (в т.ч. "none" и отсутствие alg);
//   - ErrInvalidSignature — подпись не совпала, в том числе когда изменённый
//     header или payload перестал разбираться как JSON;
//   - ErrTokenExpired — exp в прошлом;
//   - ErrInvalidClaims — iss/aud/sub не те.
func (c *Codec) ValidateAndDecode(token string) (ClaimSet, error) {
	return c.decode(token,
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithAudience(c.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
}

// DecodeExpired — то же, что ValidateAndDecode, но истёкший токен принимается.
//
// Нужен только для восстановления identity по просроченному access-токену
// (выход из системы). Подпись и алгоритм проверяются так же строго.
func (c *Codec) DecodeExpired(token string) (ClaimSet, error) {
	return c.decode(token, jwt.WithoutClaimsValidation())
}

func (c *Codec) decode(token string, opts ...jwt.ParserOption) (ClaimSet, error) {
	claims := &accessClaims{}
	opts = append(opts, jwt.WithStrictDecoding())
	if _, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, c.keyFunc); err != nil {
		err = classify(err)
		// jwt разбирает JSON раньше, чем сверяет MAC, поэтому изменённый
		// токен выглядит битым. Подпись сверяем по сырым сегментам.
		if errors.Is(err, serr.ErrMalformedToken) {
			if checked, valid := c.verifyMAC(token); checked && !valid {
				return ClaimSet{}, serr.ErrInvalidSignature
			}
		}
		return ClaimSet{}, err
	}

	// WithoutClaimsValidation отключает и проверку iss/aud, поэтому сверяем сами.
	if claims.Issuer != c.cfg.Issuer || !slices.Contains(claims.Audience, c.cfg.Audience) {
		return ClaimSet{}, serr.ErrInvalidClaims
	}
	if claims.Subject == "" {
		return ClaimSet{}, serr.ErrInvalidClaims
	}

	return NewClaimSet(claims.Subject, claims.Email, claims.Roles), nil
}

// keyFunc отдаёт ключ только для HS256. Любой другой alg из заголовка
// (none, HS384, RS256, ...) отклоняется до проверки подписи.
func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, serr.ErrUnsupportedAlgorithm
	}
	return c.key.bytes(), nil
}

// verifyMAC сверяет HS256-подпись, не разбирая JSON. checked=false, если
// токен нельзя проверить: сегментов не три или header/payload не base64url.
// Подпись декодируется строго, неканоничная запись считается несовпадением.
func (c *Codec) verifyMAC(token string) (checked, valid bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false, false
	}
	for _, p := range parts[:2] {
		if _, err := base64.RawURLEncoding.DecodeString(p); err != nil {
			return false, false
		}
	}

	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return true, false
	}
	return true, jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, c.key.bytes()) == nil
}

// classify сводит ошибки jwt к доменным. Порядок важен: jwt оборачивает
// ошибку keyFunc в ErrTokenUnverifiable.
func classify(err error) error {
	switch {
	case errors.Is(err, serr.ErrUnsupportedAlgorithm):
		return serr.ErrUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		return serr.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return serr.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// alg отсутствует или не зарегистрирован в библиотеке
		return serr.ErrUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenExpired):
		return serr.ErrTokenExpired
	default:
		return serr.ErrInvalidClaims
	}
}
