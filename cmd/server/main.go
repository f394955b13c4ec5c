// @title           Session Keeper API
// @version         1.0
// @description     Session token lifecycle backend.
// @description     Issues, rotates and revokes cookie-based JWT/refresh token pairs.
// @termsOfService  https://example.com/terms

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin
// @contact.email  ivan@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера сессий.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTPS-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml (или SERVER_CONFIG);
//   - обязательную проверку включённого TLS (cookies с токенами помечены Secure);
//   - инициализацию хранилища identity и применение миграций;
//   - создание ключа подписи, кодека, менеджеров, middleware и HTTP-обработчиков;
//   - настройку и запуск HTTPS-сервера с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-session-keeper/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/repository"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-session-keeper/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	boot := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		boot.Warnf("no .env file loaded, error: %v", err)
	}

	configPath := defaultConfigPath
	if p := os.Getenv("SERVER_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		boot.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Dir:     cfg.Log.Dir,
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Console: cfg.Log.Console,
	})
	defer httpLogger.Sync() //nolint:errcheck
	sugar := httpLogger.Sugar()

	// хочу только https: cookies с токенами помечены Secure
	if !cfg.TLS.Enabled {
		sugar.Fatal("tls must be enabled")
	}

	// подключаем базу данных и накатываем миграции
	if err := config.Init(cfg.DB, cfg.Migrations); err != nil {
		sugar.Fatal(err)
	}
	db := config.GetDB()
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	key, err := crypto.NewSigningKey(cfg.Auth.JWT.SigningKey)
	if err != nil {
		sugar.Fatal(err)
	}
	codec := crypto.NewCodec(key, crypto.CodecConfig{
		Issuer:              cfg.Auth.Issuer,
		Audience:            cfg.Auth.Audience,
		AccessExpiryMinutes: cfg.Auth.AccessExpiryMinutes,
	})

	// nil-Recorder: метрики выключены, вызовы ничего не делают
	var rec *metrics.Recorder
	if cfg.Observability.Metrics.Enabled {
		rec = metrics.New()
	}

	usersRepo := repository.NewUsersRepository(db)
	identities := service.NewIdentityManager(usersRepo, cfg, httpLogger)
	sessions := service.NewSessionManager(identities, codec, cfg, rec, httpLogger)
	verifier := middleware.NewAccessVerifier(codec, cfg.Auth.Cookies.AccessName, rec, httpLogger)

	handler := api.NewHandler(sessions, codec, cfg, httpLogger, verifier, rec)
	router := h.NewRouter(handler, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		TLSConfig:         &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)},
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infof("server started on %s", addr)

		if err := server.ListenAndServeTLS(
			cfg.TLS.CertFile,
			cfg.TLS.KeyFile,
		); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
