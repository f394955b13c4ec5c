package tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:              "mocnghe",
			Audience:            "mocnghe-web",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   7,
			DefaultRoles:        []string{"Customer"},
			AutoConfirmEmail:    true,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456",
			},
		},
		Password: config.PasswordConfig{
			Hasher: "argon2id",
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
			Policy: config.PasswordPolicy{
				MinLength:              8,
				RequireDigit:           true,
				RequireLower:           true,
				RequireUpper:           true,
				RequireNonAlphanumeric: true,
			},
		},
	}
}

func testParams(cfg *config.Config) crypto.Argon2Params {
	return crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	}
}

func newCodec(t *testing.T, cfg *config.Config) *crypto.Codec {
	t.Helper()
	key, err := crypto.NewSigningKey(cfg.Auth.JWT.SigningKey)
	require.NoError(t, err)
	return crypto.NewCodec(key, crypto.CodecConfig{
		Issuer:              cfg.Auth.Issuer,
		Audience:            cfg.Auth.Audience,
		AccessExpiryMinutes: cfg.Auth.AccessExpiryMinutes,
	})
}

// создаём SessionManager поверх мока хранилища
func newSessionManager(t *testing.T) (*service.SessionManager, *mocks.MockIdentityStore, *metrics.Recorder, *crypto.Codec) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdentityStore(ctrl)

	cfg := testConfig()
	codec := newCodec(t, cfg)
	rec := metrics.New()

	return service.NewSessionManager(store, codec, cfg, rec, logger.Nop()), store, rec, codec
}
