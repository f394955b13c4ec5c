package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"

	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
)

// MinSigningKeyBytes — минимальная длина симметричного ключа HS256.
const MinSigningKeyBytes = 32

// base64KeyPrefix позволяет передавать бинарный ключ через env/yaml.
const base64KeyPrefix = "base64:"

// SigningKey — секрет для подписи и проверки access-токенов.
//
// Значение неизменяемо после создания и безопасно для конкурентного
// использования. Наружу сырые байты не отдаются.
type SigningKey struct {
	material []byte
}

// NewSigningKey строит ключ из настроенного секрета.
//
// Секрет вида "base64:<...>" декодируется, иначе берутся байты строки как есть.
// Ключ короче MinSigningKeyBytes отклоняется с ErrWeakSigningKey.
func NewSigningKey(secret string) (SigningKey, error) {
	secret = strings.TrimSpace(secret)

	raw := []byte(secret)
	if strings.HasPrefix(secret, base64KeyPrefix) {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, base64KeyPrefix))
		if err != nil {
			return SigningKey{}, fmt.Errorf("%w: decode base64 key: %v", serr.ErrWeakSigningKey, err)
		}
		raw = decoded
	}

	if len(raw) < MinSigningKeyBytes {
		return SigningKey{}, fmt.Errorf("%w: %d bytes, need at least %d", serr.ErrWeakSigningKey, len(raw), MinSigningKeyBytes)
	}

	return SigningKey{material: append([]byte(nil), raw...)}, nil
}

// IsZero сообщает, что ключ не был инициализирован через NewSigningKey.
func (k SigningKey) IsZero() bool {
	return len(k.material) == 0
}

// bytes отдаёт копию, чтобы jwt-библиотека не могла испортить материал.
func (k SigningKey) bytes() []byte {
	return append([]byte(nil), k.material...)
}
