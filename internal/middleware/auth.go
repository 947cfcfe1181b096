package middleware

import (
	"net/http"
	"strings"

	"github.com/931ubada/e-commerce-website/pkg/logger"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const adminKey = "admin"

// Authenticator turns a session token into the admin username
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// AdminAuth only lets requests through that carry a valid admin session
// token. Every failure gets the same 401 body.
func AdminAuth(gate Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				log.Warn("Missing or malformed Authorization header")
				prometheus.RecordAuthError("missing_token")
				return unauthorized(c)
			}

			username, err := gate.Authenticate(token)
			if err != nil {
				log.Warn("Invalid admin token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return unauthorized(c)
			}

			c.Set(adminKey, username)
			return next(c)
		}
	}
}

// AdminFromContext returns the authenticated admin username, empty when the
// request did not pass AdminAuth
func AdminFromContext(c echo.Context) string {
	username, _ := c.Get(adminKey).(string)
	return username
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
}
