package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// RefreshHandleBytes — размер случайной части refresh-токена (512 бит).
const RefreshHandleBytes = 64

// NewRefreshHandle генерирует непрозрачный refresh-токен из CSPRNG.
// Токен не несёт никакой информации о пользователе.
func NewRefreshHandle() (string, error) {
	b := make([]byte, RefreshHandleBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// HashRefreshHandle — отпечаток refresh-токена для хранения в БД.
// В открытом виде токен сервер не хранит.
func HashRefreshHandle(handle string) []byte {
	sum := sha256.Sum256([]byte(handle))
	return sum[:]
}
