package api

import (
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
)

// setTokenCookies кладёт пару токенов в cookies.
//
// access-cookie видна всему сайту, refresh-cookie браузер отправляет
// только на путь refresh (auth.cookies.refresh_path).
func (h *Handler) setTokenCookies(w http.ResponseWriter, pair service.TokenPair) {
	http.SetCookie(w, h.tokenCookie(h.cookies.AccessName, pair.AccessToken, "/", pair.AccessExpiresAt))
	http.SetCookie(w, h.tokenCookie(h.cookies.RefreshName, pair.RefreshHandle, h.cookies.RefreshPath, pair.RefreshExpiresAt))
}

// expireTokenCookies просит браузер удалить обе cookies.
func (h *Handler) expireTokenCookies(w http.ResponseWriter) {
	for _, c := range []*http.Cookie{
		h.tokenCookie(h.cookies.AccessName, "", "/", time.Time{}),
		h.tokenCookie(h.cookies.RefreshName, "", h.cookies.RefreshPath, time.Time{}),
	} {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (h *Handler) tokenCookie(name, value, path string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	// нулевой срок: cookie живёт до закрытия браузера
	if !expires.IsZero() {
		c.Expires = expires.UTC()
		c.MaxAge = max(int(time.Until(expires).Seconds()), 1)
	}
	return c
}
