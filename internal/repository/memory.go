package repository

import (
	"context"
	"sync"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
)

// MemoryProductRepository keeps products in process memory. Every read and
// write copies, so a reader never sees a product mid-update.
type MemoryProductRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.Product
}

// NewMemoryProductRepository creates an empty in-memory product store
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{byID: make(map[string]*model.Product)}
}

func (r *MemoryProductRepository) List(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, *r.byID[id].Clone())
	}
	return products, nil
}

func (r *MemoryProductRepository) Get(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryProductRepository) Insert(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return apperr.Wrap(errDuplicateID(p.ID))
	}
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryProductRepository) Replace(_ context.Context, p *model.Product) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	stored := p.Clone()
	stored.Seq = existing.Seq
	stored.CreatedAt = existing.CreatedAt
	r.byID[p.ID] = stored
	return stored.Clone(), nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryAdminRepository holds the single admin account in memory
type MemoryAdminRepository struct {
	mu    sync.RWMutex
	admin *model.Admin
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{}
}

// Admin returns the configured admin, apperr.ErrNotFound when none was seeded
func (r *MemoryAdminRepository) Admin(_ context.Context) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.admin == nil {
		return nil, apperr.ErrNotFound
	}
	admin := *r.admin
	return &admin, nil
}

// EnsureAdmin stores admin unless an account already exists. It reports
// whether admin was stored.
func (r *MemoryAdminRepository) EnsureAdmin(_ context.Context, admin *model.Admin) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.admin != nil {
		return false, nil
	}
	stored := *admin
	r.admin = &stored
	return true, nil
}
