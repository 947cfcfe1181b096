package middleware

import (
	"github.com/931ubada/e-commerce-website/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags each request with an id, keeping one supplied
// by the client
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDHeader, requestID)
		}
		c.Response().Header().Set(logger.RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		return next(c)
	}
}
