package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/931ubada/e-commerce-website/internal/catalog"
	"github.com/931ubada/e-commerce-website/internal/middleware"
	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService is the catalog as seen by the HTTP layer
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, actor string, in catalog.ProductInput) (*model.Product, error)
	Update(ctx context.Context, actor, id string, in catalog.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, actor, id string) error
}

// ProductResponse is a product with its derived fields
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	PriceDisplay   string          `json:"price_display"`
	Description    string          `json:"description"`
	Images         []string        `json:"images"`
	Variants       []model.Variant `json:"variants"`
	TotalInventory int             `json:"total_inventory"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toProductResponse(p *model.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		PriceDisplay:   decimal.NewFromFloat(p.Price).StringFixed(2),
		Description:    p.Description,
		Images:         []string(p.Images),
		Variants:       p.Variants,
		TotalInventory: catalog.TotalInventory(p),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if resp.Variants == nil {
		resp.Variants = []model.Variant{}
	}
	return resp
}

func toProductResponses(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts returns every product. It serves both the public and the
// admin listing.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	log.Debug("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product body", zap.Error(err))
		return respondError(c, apperr.InvalidErr("invalid request body", nil))
	}

	p, err := h.products.Create(c.Request().Context(), middleware.AdminFromContext(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

// UpdateProduct replaces the product as a whole
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req catalog.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product body", zap.String("product_id", id), zap.Error(err))
		return respondError(c, apperr.InvalidErr("invalid request body", nil))
	}

	p, err := h.products.Update(c.Request().Context(), middleware.AdminFromContext(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	err := h.products.Delete(c.Request().Context(), middleware.AdminFromContext(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
