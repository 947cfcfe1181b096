package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id between middleware and clients
const RequestIDHeader = "X-Request-ID"

const contextKey = "logger"

// FromContext retrieves the request-scoped logger from the Echo context
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(contextKey).(*zap.Logger); ok {
		return logger
	}

	requestID := c.Request().Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}

// WithLogger stores a logger in the Echo context
func WithLogger(c echo.Context, logger *zap.Logger) {
	c.Set(contextKey, logger)
}
