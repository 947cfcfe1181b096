// Package catalog owns the product collection and its mutation rules.
//
// Reads are public. Writes take the admin identity that the session gate
// already validated; the catalog does not authenticate on its own.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists products. Implementations must make Insert, Replace
// and Delete atomic with respect to readers, and must never hand out
// products that share memory with what they store.
type Repository interface {
	List(ctx context.Context) ([]model.Product, error)
	// Get returns apperr.ErrNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*model.Product, error)
	Insert(ctx context.Context, p *model.Product) error
	// Replace overwrites every field but ID and CreatedAt, and returns the
	// stored product. apperr.ErrNotFound when the id is unknown.
	Replace(ctx context.Context, p *model.Product) (*model.Product, error)
	// Delete removes the product and its variants, apperr.ErrNotFound when
	// the id is unknown.
	Delete(ctx context.Context, id string) error
}

// Catalog is the catalog store
type Catalog struct {
	repo  Repository
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// New creates a catalog over repo
func New(repo Repository, log *zap.Logger) *Catalog {
	return &Catalog{
		repo:  repo,
		log:   log,
		now:   utcNow,
		newID: func() string { return uuid.New().String() },
	}
}

// utcNow is truncated to the precision Postgres keeps, so a stored product
// reads back equal to the one returned by Create.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// TotalInventory sums the inventory of every variant of p. It is computed
// on each call and must not be cached across mutations.
func TotalInventory(p *model.Product) int {
	total := 0
	for _, v := range p.Variants {
		total += v.Inventory
	}
	return total
}

// List returns every product in insertion order
func (c *Catalog) List(ctx context.Context) ([]model.Product, error) {
	products, err := c.repo.List(ctx)
	if err != nil {
		c.log.Error("Failed to list products", zap.Error(err))
		return nil, apperr.Wrap(err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// PublishInventory sets the inventory gauge of every stored product. Run at
// startup so products written by an earlier process are reported too.
func (c *Catalog) PublishInventory(ctx context.Context) error {
	products, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		prometheus.UpdateProductInventory(products[i].ID, TotalInventory(&products[i]))
	}
	c.log.Info("Inventory metrics published", zap.Int("products", len(products)))
	return nil
}

// Get returns the product with the given id
func (c *Catalog) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, c.readError(err, id)
	}
	return p, nil
}

// Create validates in and appends a new product with a fresh id
func (c *Catalog) Create(ctx context.Context, actor string, in ProductInput) (*model.Product, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		prometheus.RecordProductOperation("create", "invalid")
		c.log.Info("Rejected product creation", zap.String("admin", actor), zap.Error(err))
		return nil, err
	}

	p := in.toModel()
	p.ID = c.newID()
	p.CreatedAt = c.now()
	p.UpdatedAt = p.CreatedAt
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
	}

	if err := c.repo.Insert(ctx, p); err != nil {
		prometheus.RecordProductOperation("create", "error")
		c.log.Error("Failed to create product", zap.String("admin", actor), zap.Error(err))
		return nil, apperr.Wrap(err)
	}

	total := TotalInventory(p)
	prometheus.RecordProductOperation("create", "ok")
	prometheus.UpdateProductInventory(p.ID, total)
	c.log.Info("Product created",
		zap.String("admin", actor),
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.Float64("price", p.Price),
		zap.Int("variants", len(p.Variants)),
		zap.Int("total_inventory", total))
	return p, nil
}

// Update replaces every field of the product with in. Fields missing from
// in are cleared, not merged from the previous version.
func (c *Catalog) Update(ctx context.Context, actor, id string, in ProductInput) (*model.Product, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		// an unknown id wins over a bad body
		if _, getErr := c.repo.Get(ctx, id); errors.Is(getErr, apperr.ErrNotFound) {
			prometheus.RecordProductOperation("update", "not_found")
			return nil, apperr.NotFoundErr("Product not found")
		}
		prometheus.RecordProductOperation("update", "invalid")
		c.log.Info("Rejected product update",
			zap.String("admin", actor),
			zap.String("product_id", id),
			zap.Error(err))
		return nil, err
	}

	p := in.toModel()
	p.ID = id
	p.UpdatedAt = c.now()
	for i := range p.Variants {
		p.Variants[i].ProductID = id
	}

	stored, err := c.repo.Replace(ctx, p)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			prometheus.RecordProductOperation("update", "not_found")
			return nil, apperr.NotFoundErr("Product not found")
		}
		prometheus.RecordProductOperation("update", "error")
		c.log.Error("Failed to update product",
			zap.String("admin", actor),
			zap.String("product_id", id),
			zap.Error(err))
		return nil, apperr.Wrap(err)
	}

	total := TotalInventory(stored)
	prometheus.RecordProductOperation("update", "ok")
	prometheus.UpdateProductInventory(stored.ID, total)
	c.log.Info("Product updated",
		zap.String("admin", actor),
		zap.String("product_id", stored.ID),
		zap.String("name", stored.Name),
		zap.Float64("price", stored.Price),
		zap.Int("variants", len(stored.Variants)),
		zap.Int("total_inventory", total))
	return stored, nil
}

// Delete removes the product and its variants. Deleting the same id twice
// fails the second time.
func (c *Catalog) Delete(ctx context.Context, actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			prometheus.RecordProductOperation("delete", "not_found")
			return apperr.NotFoundErr("Product not found")
		}
		prometheus.RecordProductOperation("delete", "error")
		c.log.Error("Failed to delete product",
			zap.String("admin", actor),
			zap.String("product_id", id),
			zap.Error(err))
		return apperr.Wrap(err)
	}

	prometheus.RecordProductOperation("delete", "ok")
	prometheus.DeleteProductInventory(id)
	c.log.Info("Product deleted", zap.String("admin", actor), zap.String("product_id", id))
	return nil
}

func (c *Catalog) readError(err error, id string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFoundErr("Product not found")
	}
	c.log.Error("Failed to load product", zap.String("product_id", id), zap.Error(err))
	return apperr.Wrap(err)
}

func requireActor(actor string) error {
	if actor == "" {
		return apperr.UnauthorizedErr("admin authentication required")
	}
	return nil
}
