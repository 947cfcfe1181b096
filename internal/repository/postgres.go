package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func errDuplicateID(id string) error {
	return fmt.Errorf("product %s already exists", id)
}

// PostgresProductRepository stores products and their variants with GORM.
// Writes run in a transaction so a product and its variants change together.
type PostgresProductRepository struct {
	db *gorm.DB
}

func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// listQuery selects products in insertion order. created_at can tie, the
// sequence cannot.
func listQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Variants", orderedVariants).Order("seq")
}

func (r *PostgresProductRepository) List(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var products []model.Product
	err := listQuery(r.db.WithContext(ctx)).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	return getProduct(r.db.WithContext(ctx), id)
}

func getProduct(db *gorm.DB, id string) (*model.Product, error) {
	// ids are uuids; anything else cannot exist and would fail the cast
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrNotFound
	}

	var p model.Product
	err := db.Preload("Variants", orderedVariants).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

func (r *PostgresProductRepository) Insert(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return insertVariants(tx, p)
	})
}

func (r *PostgresProductRepository) Replace(ctx context.Context, p *model.Product) (*model.Product, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if _, err := uuid.Parse(p.ID); err != nil {
		return nil, apperr.ErrNotFound
	}

	var stored *model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a map so zero values (empty description, price 0) are written too
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"price":       p.Price,
			"description": p.Description,
			"images":      p.Images,
			"updated_at":  p.UpdatedAt,
		})
		if res.Error != nil {
			return fmt.Errorf("update product %s: %w", p.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&model.Variant{}).Error; err != nil {
			return fmt.Errorf("clear variants of %s: %w", p.ID, err)
		}
		if err := insertVariants(tx, p); err != nil {
			return err
		}

		var err error
		stored, err = getProduct(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Variant{}).Error; err != nil {
			return fmt.Errorf("delete variants of %s: %w", id, err)
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete product %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}

func insertVariants(tx *gorm.DB, p *model.Product) error {
	if len(p.Variants) == 0 {
		return nil
	}
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
		p.Variants[i].Position = i
	}
	if err := tx.Create(&p.Variants).Error; err != nil {
		return fmt.Errorf("insert variants of %s: %w", p.ID, err)
	}
	return nil
}

// PostgresAdminRepository reads the admin account from the admins table.
// Only the configured username is ever looked up.
type PostgresAdminRepository struct {
	db       *gorm.DB
	username string
}

func NewPostgresAdminRepository(db *gorm.DB, username string) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db, username: username}
}

// Admin returns the configured admin, apperr.ErrNotFound when it has no row
func (r *PostgresAdminRepository) Admin(ctx context.Context) (*model.Admin, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if r.username == "" {
		return nil, apperr.ErrNotFound
	}

	var admin model.Admin
	err := r.db.WithContext(ctx).Where("username = ?", r.username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	return &admin, nil
}

// EnsureAdmin inserts admin unless a row with its username exists
func (r *PostgresAdminRepository) EnsureAdmin(ctx context.Context, admin *model.Admin) (bool, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(admin)
	if res.Error != nil {
		return false, fmt.Errorf("seed admin: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
