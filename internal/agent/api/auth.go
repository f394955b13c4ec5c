// В этом файле описаны методы клиента для работы с эндпоинтами сессий:
// регистрация, вход, обновление пары токенов, выход и текущий пользователь.
package api

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// Имена cookies, в которых сервер отдаёт токены (auth.cookies в конфиге сервера).
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// Tokens — пара токенов, полученная из Set-Cookie, и сроки их жизни из конверта ответа.
type Tokens struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  *time.Time
	RefreshExpiresAt *time.Time
}

// Register регистрирует пользователя. Сервер сразу выдаёт пару токенов.
func (c *Client) Register(req models.RegisterRequest) (Tokens, error) {
	return c.tokenCall("/auth/register", req)
}

// Login выполняет вход пользователя и получает пару токенов.
func (c *Client) Login(userName, password string) (Tokens, error) {
	return c.tokenCall("/auth/login", models.LoginRequest{UserName: userName, Password: password})
}

// Refresh меняет refresh токен на новую пару. Старый refresh токен после этого не работает.
func (c *Client) Refresh(refreshToken string) (Tokens, error) {
	return c.tokenCall("/auth/refresh", nil, &http.Cookie{Name: RefreshCookieName, Value: refreshToken})
}

// Logout отзывает refresh токен на сервере. accessToken может быть уже просрочен.
func (c *Client) Logout(accessToken string) error {
	var cookies []*http.Cookie
	if accessToken != "" {
		cookies = append(cookies, &http.Cookie{Name: AccessCookieName, Value: accessToken})
	}
	_, err := c.send(http.MethodPost, "/auth/logout", nil, nil, "", cookies...)
	return err
}

// Me запрашивает информацию о текущем пользователе по access токену.
func (c *Client) Me(accessToken string) (models.MeResponse, error) {
	var resp models.MeResponse
	err := c.GetJSON("/auth/me", &resp, accessToken)
	return resp, err
}

func (c *Client) tokenCall(path string, req any, cookies ...*http.Cookie) (Tokens, error) {
	var env models.AuthResponse
	set, err := c.send(http.MethodPost, path, req, &env, "", cookies...)
	if err != nil {
		return Tokens{}, err
	}

	t := Tokens{
		AccessExpiresAt:  env.AccessTokenExpiresAt,
		RefreshExpiresAt: env.RefreshTokenExpiresAt,
	}
	for _, ck := range set {
		switch ck.Name {
		case AccessCookieName:
			t.AccessToken = ck.Value
		case RefreshCookieName:
			t.RefreshToken = ck.Value
		}
	}
	return t, nil
}
