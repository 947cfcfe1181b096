package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunDB builds SQL without ever opening a connection
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=catalog dbname=catalog sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return db
}

func TestPostgresListOrdersBySequence(t *testing.T) {
	db := newDryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var products []model.Product
		return listQuery(tx).Find(&products)
	})
	if !strings.Contains(sql, "ORDER BY seq") {
		t.Errorf("list query = %q, want ORDER BY seq", sql)
	}
}

func TestPostgresNonUUIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresProductRepository(newDryRunDB(t))

	if _, err := repo.Get(ctx, "42"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Replace(ctx, &model.Product{ID: "42", Name: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Replace() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "not-a-uuid"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestPostgresAdminWithoutUsername(t *testing.T) {
	repo := NewPostgresAdminRepository(newDryRunDB(t), "")
	if _, err := repo.Admin(context.Background()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Admin() error = %v, want ErrNotFound", err)
	}
}
