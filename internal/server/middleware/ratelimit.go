package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/logger"
)

// лимитеры с полным ведром чистим не чаще этого интервала
const limiterCleanupEvery = 5 * time.Minute

// KeyFunc выделяет из запроса ключ, по которому считается лимит.
type KeyFunc func(*http.Request) string

// ClientIP возвращает IP клиента. Заголовкам X-Forwarded-For / X-Real-IP
// верим только за доверенным прокси (server.trust_proxy).
func ClientIP(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				return strings.TrimSpace(first)
			}
			if xri := r.Header.Get("X-Real-IP"); xri != "" {
				return strings.TrimSpace(xri)
			}
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}

type limiterSet struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (s *limiterSet) get(key string) *rate.Limiter {
	if l, ok := s.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := s.limiters.LoadOrStore(key, rate.NewLimiter(s.rate, s.burst))
	s.cleanup()
	return actual.(*rate.Limiter)
}

func (s *limiterSet) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastCleanup) < limiterCleanupEvery {
		return
	}
	s.lastCleanup = time.Now()

	s.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(s.burst) {
			s.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit ограничивает частоту запросов к /auth по ключу keyFn.
// Выключенный в конфиге лимит возвращает middleware без эффекта.
func RateLimit(cfg config.RateLimitConfig, keyFn KeyFunc, log *logger.HTTPLogger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	if log == nil {
		log = logger.Nop()
	}

	set := &limiterSet{
		rate:        rate.Limit(cfg.RPS),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			limiter := set.get(key)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn("rate limit exceeded",
					zap.String("key", key),
					zap.String("uri", r.URL.Path),
					zap.Int("retry_after", retryAfter),
				)
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
