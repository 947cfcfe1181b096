package handler

import (
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError writes err as {"error": ..., "fields"?: ...}. Internal
// causes are logged and never sent to the client.
func respondError(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.FromContext(c).Error("Request failed", zap.Error(err))
	}

	body := echo.Map{"error": apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	return c.JSON(status, body)
}
