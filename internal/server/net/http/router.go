// Package http реализует маршрутизацию HTTP-слоя сервера сессий.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - rate limit на эндпоинтах /auth;
//   - выполняет проверку JWT access-токенов на защищённых маршрутах.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования для всех запросов;
//   - swagger UI и (если включены) метрики Prometheus;
//   - эндпоинты сессий под префиксом /auth;
//   - /auth/me за проверкой access-токена.
func NewRouter(h *api.Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if cfg.Observability.Metrics.Enabled {
		r.Handle(cfg.Observability.Metrics.Path, h.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.Security.RateLimit, middleware.ClientIP(cfg.Server.TrustProxy), h.Log))

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		// refresh-cookie приходит только сюда (auth.cookies.refresh_path)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)

		// защищённые пути
		r.Group(func(r chi.Router) {
			r.Use(h.Verifier.AuthMiddleware())
			r.Get("/me", h.Me)
		})
	})

	return r
}
