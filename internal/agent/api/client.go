// Package api содержит HTTP-клиент для взаимодействия с сервером сессий.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов с авторизацией через
// Bearer токен или cookies.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *APIError с сообщением
//     из конверта ответа (если тело пустое — используется res.Status).
//
// ВНИМАНИЕ: NewClient включает InsecureSkipVerify=true (TLS сертификат не проверяется).
// Это допустимо только для разработки и локального окружения.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером сессий.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// ВНИМАНИЕ: InsecureSkipVerify=true отключает проверку сертификата и делает TLS
// уязвимым для MITM. Использовать только для локальной разработки/тестов.
func NewClient(baseURL string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// APIError — ошибочный (не 2xx) ответ сервера.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []serr.ValidationError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Code, v.Description))
	}
	return e.Message + "\n  " + strings.Join(parts, "\n  ")
}

// IsUnauthorized сообщает, что сервер ответил 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// readAPIErrorBody читает тело ответа сервера и собирает *APIError.
//
// Тело разбирается как конверт models.AuthResponse; если это не JSON,
// в сообщение идёт сам текст тела, а при пустом теле — res.Status.
func readAPIErrorBody(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	apiErr := &APIError{StatusCode: res.StatusCode}

	var env models.AuthResponse
	if json.Unmarshal(raw, &env) == nil && env.Message != "" {
		apiErr.Message = env.Message
		apiErr.Errors = env.Errors
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = res.Status
	}
	return apiErr
}

// decodeJSONOrOK декодирует JSON из r в resp.
// Пустое тело (io.EOF) ошибкой не считается, resp == nil — ничего не делаем.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// Если authToken непустой, добавляется заголовок Authorization: Bearer <token>.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	_, err := c.send(http.MethodPost, path, req, resp, authToken)
	return err
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	_, err := c.send(http.MethodGet, path, nil, resp, authToken)
	return err
}

// send выполняет запрос и возвращает cookies, выставленные сервером.
//
// Заголовки:
//   - всегда: Accept: application/json
//   - если req != nil: Content-Type: application/json
//   - если authToken непустой: Authorization: Bearer <token>
func (c *Client) send(method, path string, req, resp any, authToken string, cookies ...*http.Cookie) ([]*http.Cookie, error) {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return nil, err
		}
		body = &buf
	}

	r, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}
	for _, ck := range cookies {
		r.AddCookie(ck)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.Cookies(), readAPIErrorBody(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return res.Cookies(), nil
	}

	return res.Cookies(), decodeJSONOrOK(res.Body, resp)
}
