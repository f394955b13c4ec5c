// HTTP-хендлеры регистрации, логина, refresh и logout
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-session-keeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Регистрация
// @Description  Создаёт пользователя с ролями по умолчанию и сразу выдаёт пару токенов в cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      201   {object}  models.AuthResponse
// @Failure      400   {object}  models.AuthResponse  "bad json или ошибки валидации (errors[])"
// @Failure      500   {object}  models.AuthResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, err := h.Sessions.Register(r.Context(), srvmodels.RegistrationData{
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		var verrs serr.ValidationErrors
		if errors.As(err, &verrs) {
			WriteJSON(w, http.StatusBadRequest, models.AuthResponse{
				IsSuccess: false,
				Message:   serr.ErrValidation.Error(),
				Errors:    verrs,
			})
			return
		}
		h.internalError(w, "register failed", err)
		return
	}

	pair, err := h.Sessions.IssueTokenPair(r.Context(), identity, h.refreshExpiryDays)
	if err != nil {
		h.internalError(w, "issue token pair failed", err)
		return
	}

	h.setTokenCookies(w, pair)
	WriteJSON(w, http.StatusCreated, successResponse("registered", pair))
}

// Login обрабатывает вход пользователя и выдачу пары токенов.
//
// @Summary      Вход
// @Description  Проверяет имя и пароль. Неверное имя и неверный пароль неотличимы.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Учётные данные"
// @Success      200   {object}  models.AuthResponse
// @Failure      400   {object}  models.AuthResponse
// @Failure      401   {object}  models.AuthResponse  "invalid credentials"
// @Failure      500   {object}  models.AuthResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, ok, err := h.Sessions.SignIn(r.Context(), req.UserName, req.Password)
	if err != nil {
		h.internalError(w, "sign in failed", err)
		return
	}
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
		return
	}

	pair, err := h.Sessions.IssueTokenPair(r.Context(), identity, h.refreshExpiryDays)
	if err != nil {
		h.internalError(w, "issue token pair failed", err)
		return
	}

	h.setTokenCookies(w, pair)
	WriteJSON(w, http.StatusOK, successResponse("signed in", pair))
}

// Refresh меняет refresh-токен из cookie на новую пару.
//
// Тело запроса не читается: refresh-токен приходит только в cookie.
//
// @Summary      Обновление токенов
// @Description  Одноразовая ротация refresh-токена. Использованный токен больше не принимается.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.AuthResponse
// @Failure      401  {object}  models.AuthResponse  "нет cookie, токен неизвестен или истёк"
// @Failure      500  {object}  models.AuthResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(h.cookies.RefreshName)
	if err != nil || c.Value == "" {
		WriteError(w, http.StatusUnauthorized, serr.ErrMissingRefreshHandle)
		return
	}

	pair, err := h.Sessions.RefreshTokenPair(r.Context(), c.Value)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrUnknownRefreshHandle):
			WriteError(w, http.StatusUnauthorized, serr.ErrUnknownRefreshHandle)
		case errors.Is(err, serr.ErrRefreshHandleExpired):
			WriteError(w, http.StatusUnauthorized, serr.ErrRefreshHandleExpired)
		default:
			h.internalError(w, "refresh failed", err)
		}
		return
	}

	h.setTokenCookies(w, pair)
	WriteJSON(w, http.StatusOK, successResponse("refreshed", pair))
}

// Logout отзывает refresh-токен и удаляет cookies.
//
// Пользователь определяется по access-токену, который может быть уже
// просрочен; подпись и алгоритм при этом проверяются.
//
// @Summary      Выход
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.AuthResponse
// @Failure      401  {object}  models.AuthResponse  "подделанный access-токен"
// @Failure      500  {object}  models.AuthResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.Verifier.TokenFrom(r)
	if token != "" {
		claims, err := h.Codec.DecodeExpired(token)
		if err != nil {
			h.Metrics.TokenRejected(middleware.RejectReason(err))
			h.Log.LogSecurityEvent("logout_token_rejected", err, zap.String("remote_addr", r.RemoteAddr))
			h.expireTokenCookies(w)
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
			return
		}

		if err := h.Sessions.SignOut(r.Context(), claims.Subject); err != nil {
			h.internalError(w, "sign out failed", err)
			return
		}
	}

	h.expireTokenCookies(w)
	WriteJSON(w, http.StatusOK, models.AuthResponse{IsSuccess: true, Message: "signed out"})
}

// Me возвращает данные текущего пользователя из access-токена.
//
// @Summary      Текущий пользователь
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MeResponse
// @Failure      401  {string}  string  "unauthorized"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	WriteJSON(w, http.StatusOK, models.MeResponse{
		UserName: claims.Subject,
		Email:    claims.Email,
		Roles:    claims.Roles,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return false
	}
	return true
}

// internalError пишет причину в лог, а клиенту отдаёт только общий ответ.
func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.Log.Error(msg, zap.Error(err))
	WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
}

func successResponse(msg string, pair service.TokenPair) models.AuthResponse {
	resp := models.AuthResponse{
		IsSuccess:            true,
		Message:              msg,
		AccessTokenExpiresAt: timePtr(pair.AccessExpiresAt),
	}
	if !pair.RefreshExpiresAt.IsZero() {
		resp.RefreshTokenExpiresAt = timePtr(pair.RefreshExpiresAt)
	}
	return resp
}

func timePtr(t time.Time) *time.Time {
	t = t.UTC()
	return &t
}
