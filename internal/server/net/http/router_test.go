package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/repository"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// newTestServer поднимает весь стек поверх SQLite во временной директории
func newTestServer(t *testing.T) (*httptest.Server, *crypto.Codec) {
	t.Helper()

	cfg := &config.Config{
		DB: config.DBConfig{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "router.db")},
		Auth: config.AuthConfig{
			Issuer:           "mocnghe",
			Audience:         "mocnghe-web",
			AutoConfirmEmail: true,
			JWT:              config.JWTConfig{SigningKey: "supersecretkeysupersecretkey123456"},
		},
		Password: config.PasswordConfig{
			Argon2: config.Argon2Config{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
			Policy: config.PasswordPolicy{RequireDigit: true, RequireLower: true, RequireUpper: true, RequireNonAlphanumeric: true},
		},
		Observability: config.ObservabilityConfig{Metrics: config.MetricsConfig{Enabled: true}},
	}
	config.ApplyDefaults(cfg)

	db, err := config.Open(cfg.DB, config.MigrationsConfig{Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.NewSigningKey(cfg.Auth.JWT.SigningKey)
	require.NoError(t, err)
	codec := crypto.NewCodec(key, crypto.CodecConfig{
		Issuer:              cfg.Auth.Issuer,
		Audience:            cfg.Auth.Audience,
		AccessExpiryMinutes: cfg.Auth.AccessExpiryMinutes,
	})

	log := logger.Nop()
	rec := metrics.New()
	identities := service.NewIdentityManager(repository.NewUsersRepository(db), cfg, log)
	sessions := service.NewSessionManager(identities, codec, cfg, rec, log)
	verifier := middleware.NewAccessVerifier(codec, cfg.Auth.Cookies.AccessName, rec, log)

	h := api.NewHandler(sessions, codec, cfg, log, verifier, rec)

	srv := httptest.NewTLSServer(NewRouter(h, cfg))
	t.Cleanup(srv.Close)
	return srv, codec
}

// клиент с собственной cookie jar, чтобы браузерные правила (Secure, Path) работали как есть
func newClient(t *testing.T, srv *httptest.Server) (*http.Client, http.CookieJar) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := *srv.Client()
	c.Jar = jar
	return &c, jar
}

func postJSON(t *testing.T, c *http.Client, target string, body any) (*http.Response, string) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := c.Post(target, api.JsonContentType, bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func cookieValue(jar http.CookieJar, u *url.URL, name string) string {
	for _, c := range jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestRouter_SessionLifecycle(t *testing.T) {
	srv, codec := newTestServer(t)
	client, jar := newClient(t, srv)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	refreshURL, err := url.Parse(srv.URL + "/auth/refresh")
	require.NoError(t, err)
	require.Equal(t, "/auth/refresh", refreshURL.Path)

	// --- register ---
	resp, body := postJSON(t, client, srv.URL+"/auth/register", models.RegisterRequest{
		UserName: "alice", Email: "alice@example.com", Password: "P@ssw0rd1!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	access := cookieValue(jar, base, "access_token")
	claims, err := codec.ValidateAndDecode(access)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"Customer"}, claims.Roles)

	// refresh-cookie не уходит никуда, кроме пути refresh
	require.Empty(t, cookieValue(jar, base, "refresh_token"))
	first := cookieValue(jar, refreshURL, "refresh_token")
	require.NotEmpty(t, first)

	// --- me ---
	meResp, err := client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	var me models.MeResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	require.Equal(t, "alice", me.UserName)

	// --- refresh: новая пара, старый refresh-токен больше не работает ---
	resp, body = postJSON(t, client, refreshURL.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	second := cookieValue(jar, refreshURL, "refresh_token")
	require.NotEqual(t, first, second)

	replay := replayRefresh(t, srv, first)
	require.Equal(t, http.StatusUnauthorized, replay)

	// --- logout отзывает текущий refresh-токен ---
	resp, body = postJSON(t, client, srv.URL+"/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.Equal(t, http.StatusUnauthorized, replayRefresh(t, srv, second))

	// --- metrics ---
	mResp, err := client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	data, err := io.ReadAll(mResp.Body)
	mResp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(data), `session_token_pairs_issued_total{reason="refresh"} 1`)
}

// Неверный пароль и неизвестный пользователь дают одинаковый ответ
func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	srv, _ := newTestServer(t)
	client, _ := newClient(t, srv)

	resp, body := postJSON(t, client, srv.URL+"/auth/register", models.RegisterRequest{
		UserName: "alice", Email: "alice@example.com", Password: "P@ssw0rd1!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	wrongResp, wrongBody := postJSON(t, client, srv.URL+"/auth/login", models.LoginRequest{UserName: "alice", Password: "nope"})
	ghostResp, ghostBody := postJSON(t, client, srv.URL+"/auth/login", models.LoginRequest{UserName: "ghost", Password: "nope"})

	require.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	require.Equal(t, wrongResp.StatusCode, ghostResp.StatusCode)
	require.Equal(t, wrongBody, ghostBody)
}

func TestRouter_MeRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// replayRefresh предъявляет конкретный refresh-токен мимо cookie jar
func replayRefresh(t *testing.T, srv *httptest.Server, handle string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/auth/refresh", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: handle})

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}
