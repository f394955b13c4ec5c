package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-session-keeper/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

const signingKey = "supersecretkeysupersecretkey123456"

func testConfig() *config.Config {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer:              "mocnghe",
			Audience:            "mocnghe-web",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   7,
			DefaultRoles:        []string{"Customer"},
			AutoConfirmEmail:    true,
			JWT:                 config.JWTConfig{Algorithm: "HS256", SigningKey: signingKey},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func newCodec(t *testing.T, cfg *config.Config, opts ...crypto.CodecOption) *crypto.Codec {
	t.Helper()
	key, err := crypto.NewSigningKey(cfg.Auth.JWT.SigningKey)
	require.NoError(t, err)
	return crypto.NewCodec(key, crypto.CodecConfig{
		Issuer:              cfg.Auth.Issuer,
		Audience:            cfg.Auth.Audience,
		AccessExpiryMinutes: cfg.Auth.AccessExpiryMinutes,
	}, opts...)
}

// NewTestHandler собирает Handler с настоящим SessionManager поверх мока хранилища
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockIdentityStore, *crypto.Codec) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := svcmocks.NewMockIdentityStore(ctrl)

	cfg := testConfig()
	codec := newCodec(t, cfg)
	rec := metrics.New()
	log := logger.Nop()

	sm := service.NewSessionManager(store, codec, cfg, rec, log)
	verifier := middleware.NewAccessVerifier(codec, cfg.Auth.Cookies.AccessName, rec, log)

	return api.NewHandler(sm, codec, cfg, log, verifier, rec), store, codec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(api.ContentType, api.JsonContentType)
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// requireTokenCookie проверяет обязательные атрибуты cookie с токеном
func requireTokenCookie(t *testing.T, c *http.Cookie, path string) {
	t.Helper()
	require.NotNil(t, c)
	require.NotEmpty(t, c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.Equal(t, path, c.Path)
	require.True(t, c.Expires.After(time.Now()))
}
