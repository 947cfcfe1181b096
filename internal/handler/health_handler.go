package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/931ubada/e-commerce-website/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HealthHandler struct {
	ping func(ctx context.Context) error // nil for the memory store
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// HealthCheck reports liveness; ?check=db also pings the database
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if c.QueryParam("check") == "db" && h.ping != nil {
		if err := h.ping(c.Request().Context()); err != nil {
			logger.FromContext(c).Error("Database ping error", zap.Error(err))
			response["status"] = "error"
			response["db_status"] = "error"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		response["db_status"] = "ok"
	}

	return c.JSON(http.StatusOK, response)
}
