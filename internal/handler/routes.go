package handler

import (
	"github.com/931ubada/e-commerce-website/internal/middleware"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/labstack/echo/v4"
)

// Routes bundles what RegisterRoutes mounts
type Routes struct {
	Products     *ProductHandler
	Auth         *AuthHandler
	Health       *HealthHandler
	Gate         middleware.Authenticator
	LoginLimiter *middleware.LoginRateLimiter // optional
}

// RegisterRoutes mounts the public catalog, the admin API, health and metrics
func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/health", r.Health.HealthCheck)

	// Public catalog, never behind the gate
	public := e.Group("/api/products")
	public.GET("", r.Products.ListProducts)
	public.GET("/:id", r.Products.GetProduct)

	var loginMiddleware []echo.MiddlewareFunc
	if r.LoginLimiter != nil {
		loginMiddleware = append(loginMiddleware, r.LoginLimiter.Middleware())
	}
	e.POST("/api/admin/login", r.Auth.Login, loginMiddleware...)

	admin := e.Group("/api/admin", middleware.AdminAuth(r.Gate))
	admin.GET("/verify", r.Auth.Verify)
	admin.GET("/products", r.Products.ListProducts)
	admin.POST("/products", r.Products.CreateProduct)
	admin.PUT("/products/:id", r.Products.UpdateProduct)
	admin.DELETE("/products/:id", r.Products.DeleteProduct)
}
