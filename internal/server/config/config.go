// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${JWT_SIGNING_KEY}
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Поддерживаемые драйверы хранилища identity.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env           string              `yaml:"env"` // dev|stage|prod
	Server        ServerConfig        `yaml:"server"`
	TLS           TLSConfig           `yaml:"tls"`
	DB            DBConfig            `yaml:"db"`
	Migrations    MigrationsConfig    `yaml:"migrations"`
	Auth          AuthConfig          `yaml:"auth"`
	Password      PasswordConfig      `yaml:"password"`
	Security      SecurityConfig      `yaml:"security"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	TrustProxy        bool          `yaml:"trust_proxy"` // доверять ли заголовкам X-Forwarded-*
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// DBConfig — настройки подключения к хранилищу identity.
type DBConfig struct {
	Driver          string        `yaml:"driver"` // postgres|sqlite
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// MigrationsConfig — настройки миграций БД (сами миграции вшиты в бинарник).
type MigrationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AuthConfig — настройки выпуска и транспорта токенов.
type AuthConfig struct {
	Issuer                string        `yaml:"issuer"`
	Audience              string        `yaml:"audience"`
	AccessExpiryMinutes   int           `yaml:"access_expiry_minutes"`
	RefreshExpiryDays     int           `yaml:"refresh_expiry_days"`
	DefaultRoles          []string      `yaml:"default_roles"`
	AutoConfirmEmail      bool          `yaml:"auto_confirm_email"`
	RequireConfirmedEmail bool          `yaml:"require_confirmed_email"`
	JWT                   JWTConfig     `yaml:"jwt"`
	Cookies               CookiesConfig `yaml:"cookies"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SIGNING_KEY}
}

// CookiesConfig — имена и область действия cookie с токенами.
type CookiesConfig struct {
	AccessName  string `yaml:"access_name"`
	RefreshName string `yaml:"refresh_name"`
	RefreshPath string `yaml:"refresh_path"` // refresh-cookie уходит только на этот путь
	Domain      string `yaml:"domain"`
}

// PasswordConfig — настройки хэширования и политики паролей.
type PasswordConfig struct {
	Hasher string         `yaml:"hasher"` // argon2id
	Argon2 Argon2Config   `yaml:"argon2"`
	Policy PasswordPolicy `yaml:"policy"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// PasswordPolicy — требования к паролю при регистрации.
type PasswordPolicy struct {
	MinLength              int  `yaml:"min_length"`
	RequireDigit           bool `yaml:"require_digit"`
	RequireLower           bool `yaml:"require_lower"`
	RequireUpper           bool `yaml:"require_upper"`
	RequireNonAlphanumeric bool `yaml:"require_non_alphanumeric"`
}

// SecurityConfig — ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig — rate limit на /auth (по IP).
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	Key     string  `yaml:"key"` // ip
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level   string `yaml:"level"`  // debug|info|warn|error
	Format  string `yaml:"format"` // json|console
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// ObservabilityConfig — метрики.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты и валидирует.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	// signing_key: "${JWT_SIGNING_KEY}" -> signing_key: "реальное_значение"
	expanded := ExpandEnvStrict(string(raw))
	raw = []byte(expanded)

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана, оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := envPlaceholder.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverPostgres
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Auth.AccessExpiryMinutes == 0 {
		cfg.Auth.AccessExpiryMinutes = 15
	}
	if cfg.Auth.RefreshExpiryDays == 0 {
		cfg.Auth.RefreshExpiryDays = 7
	}
	if cfg.Auth.DefaultRoles == nil {
		cfg.Auth.DefaultRoles = []string{"Customer"}
	}
	if cfg.Auth.Cookies.AccessName == "" {
		cfg.Auth.Cookies.AccessName = "access_token"
	}
	if cfg.Auth.Cookies.RefreshName == "" {
		cfg.Auth.Cookies.RefreshName = "refresh_token"
	}
	if cfg.Auth.Cookies.RefreshPath == "" {
		cfg.Auth.Cookies.RefreshPath = "/auth/refresh"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "argon2id"
	}
	if cfg.Password.Policy.MinLength == 0 {
		cfg.Password.Policy.MinLength = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Security.RateLimit.Key == "" {
		cfg.Security.RateLimit.Key = "ip"
	}
	if cfg.Observability.Metrics.Path == "" {
		cfg.Observability.Metrics.Path = "/metrics"
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так, возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	// Базовая проверка сервера
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		if c.TLS.MinVersion == "" {
			c.TLS.MinVersion = "1.2"
		}
		// TLS 1.0/1.1 считаются небезопасными, запрещаем
		if c.TLS.MinVersion == "1.0" || c.TLS.MinVersion == "1.1" {
			return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	// База данных
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("db.driver должен быть postgres|sqlite (сейчас %q)", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn обязателен")
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if key == "" {
		return errors.New("auth.jwt.signing_key обязателен (через ${JWT_SIGNING_KEY} или прямо строкой)")
	}
	// Если ${JWT_SIGNING_KEY} не подставился, значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SIGNING_KEY)", key)
	}
	// Для HS256 ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}

	if c.Auth.Issuer == "" || c.Auth.Audience == "" {
		return errors.New("auth.issuer и auth.audience обязательны")
	}
	if c.Auth.AccessExpiryMinutes <= 0 {
		return fmt.Errorf("auth.access_expiry_minutes должен быть > 0 (сейчас %d)", c.Auth.AccessExpiryMinutes)
	}
	if c.Auth.RefreshExpiryDays <= 0 {
		return fmt.Errorf("auth.refresh_expiry_days должен быть > 0 (сейчас %d)", c.Auth.RefreshExpiryDays)
	}

	// Cookies
	ck := c.Auth.Cookies
	if ck.AccessName == "" || ck.RefreshName == "" {
		return errors.New("auth.cookies.access_name и auth.cookies.refresh_name обязательны")
	}
	if ck.AccessName == ck.RefreshName {
		return errors.New("auth.cookies.access_name и auth.cookies.refresh_name должны различаться")
	}
	if !strings.HasPrefix(ck.RefreshPath, "/") {
		return fmt.Errorf("auth.cookies.refresh_path должен начинаться с / (сейчас %q)", ck.RefreshPath)
	}

	// Rate limit
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return errors.New("security.rate_limit.rps должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Burst <= 0 {
			return errors.New("security.rate_limit.burst должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Key != "ip" {
			return fmt.Errorf("security.rate_limit.key должен быть ip (сейчас %q)", c.Security.RateLimit.Key)
		}
	}

	// Хэширование паролей
	if strings.ToLower(c.Password.Hasher) != "argon2id" {
		return fmt.Errorf("password.hasher должен быть argon2id (сейчас %q)", c.Password.Hasher)
	}
	if c.Password.Argon2.Time == 0 || c.Password.Argon2.MemoryKiB == 0 || c.Password.Argon2.Threads == 0 {
		return errors.New("password.argon2 должен быть настроен для argon2id")
	}
	if c.Password.Argon2.KeyLen == 0 || c.Password.Argon2.SaltLen == 0 {
		return errors.New("password.argon2.key_len и password.argon2.salt_len должны быть > 0")
	}
	if c.Password.Policy.MinLength <= 0 {
		return errors.New("password.policy.min_length должен быть > 0")
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		return fmt.Errorf("observability.metrics.path должен начинаться с / (сейчас %q)", c.Observability.Metrics.Path)
	}

	return nil
}

// ApplyEnvOverrides — опциональная штука: даёт возможность переопределять
// некоторые настройки через переменные окружения без ${...} в yaml.
// Например SERVER_PORT=9090 переопределит server.port.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.DB.DSN = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.DB.Driver = v
	}
}

// AccessTTL — срок жизни access-токена.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessExpiryMinutes) * time.Minute
}

// RefreshTTL — срок жизни refresh-хэндла.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshExpiryDays) * 24 * time.Hour
}
