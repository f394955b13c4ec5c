// Package api реализует HTTP-слой сервера сессий.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - размещение токенов в cookies (HttpOnly, Secure, SameSite=Strict);
//   - маппинг доменных ошибок (service/crypto) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Sessions: выпуск и ротация токенов, вход, регистрация;
//   - Codec: декодирование просроченного access-токена при выходе;
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: middleware проверки access-токена;
//   - Metrics: счётчики (может быть nil).
type Handler struct {
	Sessions *service.SessionManager
	Codec    *crypto.Codec
	Log      *logger.HTTPLogger
	Verifier *middleware.AccessVerifier
	Metrics  *metrics.Recorder

	cookies           config.CookiesConfig
	refreshExpiryDays int
	maxBodyBytes      int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(
	sessions *service.SessionManager,
	codec *crypto.Codec,
	cfg *config.Config,
	log *logger.HTTPLogger,
	verifier *middleware.AccessVerifier,
	rec *metrics.Recorder,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Sessions:          sessions,
		Codec:             codec,
		Log:               log,
		Verifier:          verifier,
		Metrics:           rec,
		cookies:           cfg.Auth.Cookies,
		refreshExpiryDays: cfg.Auth.RefreshExpiryDays,
		maxBodyBytes:      cfg.Server.MaxBodyBytes,
	}
}

// WriteJSON пишет ответ в JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, models.AuthResponse{
		IsSuccess: false,
		Message:   err.Error(),
	})
}
