package middleware

import (
	"sync"
	"time"

	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/pkg/logger"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// idle limiters are dropped after this long
const limiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles requests per client IP
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

func NewLoginRateLimiter(perSecond float64, burst int) *LoginRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether ip may make another request now
func (l *LoginRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > limiterTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterTTL {
				delete(l.visitors, key)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects throttled clients with 429
func (l *LoginRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !l.Allow(ip) {
				logger.FromContext(c).Warn("Login throttled", zap.String("ip", ip))
				prometheus.RecordAuthError("rate_limited")
				c.Response().Header().Set("Retry-After", "1")
				err := apperr.TooManyRequestsErr("too many login attempts, try again later")
				return c.JSON(apperr.HTTPStatus(err), echo.Map{"error": apperr.PublicMessage(err)})
			}
			return next(c)
		}
	}
}
