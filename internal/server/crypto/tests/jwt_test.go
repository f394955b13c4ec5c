package tests

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-session-keeper/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
)

const (
	testSecret   = "supersecretkeysupersecretkey123456"
	testIssuer   = "mocnghe"
	testAudience = "mocnghe-web"
)

func newCodec(t *testing.T, opts ...crypt.CodecOption) *crypt.Codec {
	t.Helper()
	key, err := crypt.NewSigningKey(testSecret)
	require.NoError(t, err)
	return crypt.NewCodec(key, crypt.CodecConfig{
		Issuer:              testIssuer,
		Audience:            testAudience,
		AccessExpiryMinutes: 15,
	}, opts...)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	in := crypt.NewClaimSet("alice", "alice@example.com", []string{"Customer", "Reviewer"})
	token, exp, err := codec.GenerateAccessToken(in)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 2*time.Second)

	out, err := codec.ValidateAndDecode(token)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestGenerateAccessToken_Payload(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, exp, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "alice@example.com", nil))
	require.NoError(t, err)

	// Проверяем payload независимым парсером
	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	require.Equal(t, "alice", claims["sub"])
	require.Equal(t, "alice@example.com", claims["email"])
	require.Equal(t, testIssuer, claims["iss"])
	require.NotEmpty(t, claims["jti"])
	require.NotNil(t, claims["iat"])
	require.EqualValues(t, exp.Unix(), claims["exp"])

	aud, err := claims.GetAudience()
	require.NoError(t, err)
	require.Equal(t, jwt.ClaimStrings{testAudience}, aud)
}

func TestGenerateAccessToken_UniqueJTI(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)
	claims := crypt.NewClaimSet("alice", "a@example.com", nil)

	t1, _, err := codec.GenerateAccessToken(claims)
	require.NoError(t, err)
	t2, _, err := codec.GenerateAccessToken(claims)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}

func TestValidateAndDecode_TamperedSignature(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", nil))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	sig[0] = flip(sig[0])
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.ValidateAndDecode(tampered)
	require.ErrorIs(t, err, serr.ErrInvalidSignature)
}

// Последний символ подписи несёт 2 незначащих бита: соседний символ
// алфавита даёт те же байты, но токен всё равно должен отклоняться
func TestValidateAndDecode_SignatureLastCharacter(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	for i := 0; i < 50; i++ {
		token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", nil))
		require.NoError(t, err)

		idx := strings.IndexByte(base64URLAlphabet, token[len(token)-1])
		require.GreaterOrEqual(t, idx, 0)
		tampered := token[:len(token)-1] + string(base64URLAlphabet[idx^1])

		_, err = codec.ValidateAndDecode(tampered)
		require.ErrorIs(t, err, serr.ErrInvalidSignature)

		_, err = codec.DecodeExpired(tampered)
		require.ErrorIs(t, err, serr.ErrInvalidSignature)
	}
}

// Изменение любого символа токена отклоняется. Если изменённый header
// по-прежнему валидный JSON, но alg в нём уже не HS256, это подмена алгоритма.
func TestValidateAndDecode_EveryBytePosition(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "alice@example.com", []string{"Customer", "Reviewer"}))
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		b := []byte(token)
		b[i] = flip(b[i])
		tampered := string(b)

		want := serr.ErrInvalidSignature
		if headerAlgChanged(tampered) {
			want = serr.ErrUnsupportedAlgorithm
		}

		_, err := codec.ValidateAndDecode(tampered)
		require.ErrorIs(t, err, want, "position %d", i)

		_, err = codec.DecodeExpired(tampered)
		require.ErrorIs(t, err, want, "position %d", i)
	}
}

func TestValidateAndDecode_TamperedPayload(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", []string{"Customer"}))
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["roles"] = []string{"Admin"}
	raw, err = json.Marshal(payload)
	require.NoError(t, err)

	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(raw) + "." + parts[2]
	_, err = codec.ValidateAndDecode(forged)
	require.ErrorIs(t, err, serr.ErrInvalidSignature)
}

func TestValidateAndDecode_WrongKey(t *testing.T) {
	t.Parallel()

	otherKey, err := crypt.NewSigningKey("another-secret-another-secret-0123456789")
	require.NoError(t, err)
	other := crypt.NewCodec(otherKey, crypt.CodecConfig{Issuer: testIssuer, Audience: testAudience, AccessExpiryMinutes: 15})

	token, _, err := other.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", nil))
	require.NoError(t, err)

	_, err = newCodec(t).ValidateAndDecode(token)
	require.ErrorIs(t, err, serr.ErrInvalidSignature)
}

func TestValidateAndDecode_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := validMapClaims()
	sign := func(m jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(m, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	cases := map[string]string{
		"none":        sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
		"HS384":       sign(jwt.SigningMethodHS384, []byte(testSecret)),
		"HS512":       sign(jwt.SigningMethodHS512, []byte(testSecret)),
		"RS256":       sign(jwt.SigningMethodRS256, rsaKey),
		"unknown alg": craft(t, map[string]any{"alg": "XYZ", "typ": "JWT"}, claims, "c2ln"),
		"missing alg": craft(t, map[string]any{"typ": "JWT"}, claims, "c2ln"),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.ValidateAndDecode(token)
			require.ErrorIs(t, err, serr.ErrUnsupportedAlgorithm)

			_, err = codec.DecodeExpired(token)
			require.ErrorIs(t, err, serr.ErrUnsupportedAlgorithm)
		})
	}
}

func TestValidateAndDecode_Malformed(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	cases := map[string]string{
		"empty":           "",
		"one segment":     "abc",
		"two segments":    "abc.def",
		"four segments":   "a.b.c.d",
		"bad base64":      "!!!.???.***",
		"bad payload":     "e30.???.c2ln",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.ValidateAndDecode(token)
			require.ErrorIs(t, err, serr.ErrMalformedToken)
		})
	}
}

// Сегменты в base64url, но header не JSON: MAC не сходится
func TestValidateAndDecode_HeaderNotJSON(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token := base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".e30.c2ln"
	_, err := codec.ValidateAndDecode(token)
	require.ErrorIs(t, err, serr.ErrInvalidSignature)
}

func TestValidateAndDecode_Expired(t *testing.T) {
	t.Parallel()

	past := func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := newCodec(t, crypt.WithClock(past)).GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", []string{"Customer"}))
	require.NoError(t, err)

	codec := newCodec(t)

	_, err = codec.ValidateAndDecode(token)
	require.ErrorIs(t, err, serr.ErrTokenExpired)

	// путь восстановления принимает истёкший токен
	claims, err := codec.DecodeExpired(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"Customer"}, claims.Roles)
}

func TestDecodeExpired_StillChecksSignature(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", nil))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	sig[0] = flip(sig[0])

	_, err = codec.DecodeExpired(parts[0] + "." + parts[1] + "." + string(sig))
	require.ErrorIs(t, err, serr.ErrInvalidSignature)
}

func TestValidateAndDecode_WrongIssuerAndAudience(t *testing.T) {
	t.Parallel()

	key, err := crypt.NewSigningKey(testSecret)
	require.NoError(t, err)
	foreign := crypt.NewCodec(key, crypt.CodecConfig{Issuer: "other", Audience: "other-web", AccessExpiryMinutes: 5})

	token, _, err := foreign.GenerateAccessToken(crypt.NewClaimSet("alice", "a@example.com", nil))
	require.NoError(t, err)

	codec := newCodec(t)
	_, err = codec.ValidateAndDecode(token)
	require.ErrorIs(t, err, serr.ErrInvalidClaims)

	_, err = codec.DecodeExpired(token)
	require.ErrorIs(t, err, serr.ErrInvalidClaims)
}

func TestValidateAndDecode_EmptySubject(t *testing.T) {
	t.Parallel()
	codec := newCodec(t)

	token, _, err := codec.GenerateAccessToken(crypt.NewClaimSet("", "a@example.com", nil))
	require.NoError(t, err)

	_, err = codec.ValidateAndDecode(token)
	require.ErrorIs(t, err, serr.ErrInvalidClaims)
}

// --- helpers ---

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flip заменяет символ base64url другим символом алфавита
func flip(c byte) byte {
	if c == 'A' {
		return 'B'
	}
	return 'A'
}

// headerAlgChanged сообщает, что header разбирается как JSON, а alg в нём не HS256
func headerAlgChanged(token string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[0])
	if err != nil {
		return false
	}
	var header map[string]any
	if err := json.Unmarshal(raw, &header); err != nil {
		return false
	}
	return header["alg"] != "HS256"
}

func validMapClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub": "alice",
		"iss": testIssuer,
		"aud": testAudience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

// craft собирает токен руками, минуя библиотеку подписи.
func craft(t *testing.T, header map[string]any, claims jwt.MapClaims, sig string) string {
	t.Helper()
	h, err := json.Marshal(header)
	require.NoError(t, err)
	p, err := json.Marshal(claims)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(h) + "." + base64.RawURLEncoding.EncodeToString(p) + "." + sig
}
