package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/931ubada/e-commerce-website/internal/auth"
	"github.com/931ubada/e-commerce-website/internal/middleware"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var validate = validator.New()

// Authenticator logs the admin in
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Username    string    `json:"username"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthHandler struct {
	gate Authenticator
}

func NewAuthHandler(gate Authenticator) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login exchanges the admin credentials for a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid login body", zap.Error(err))
		return respondError(c, apperr.InvalidErr("invalid request body", nil))
	}
	if err := validate.Struct(&req); err != nil {
		return respondError(c, apperr.InvalidErr("username and password are required", nil))
	}

	session, err := h.gate.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		Username:    session.Username,
		ExpiresAt:   session.ExpiresAt,
	})
}

// Verify answers whether the presented token is still valid. It runs
// behind AdminAuth so reaching it means yes.
func (h *AuthHandler) Verify(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"username": middleware.AdminFromContext(c),
		"valid":    true,
	})
}
