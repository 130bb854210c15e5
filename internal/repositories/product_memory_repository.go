package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"productsvc/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

func (r *MemoryProductRepository) filter(keep func(p models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList
}

// All returns all products.
func (r *MemoryProductRepository) All(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// FindByID returns a product by its ID.
func (r *MemoryProductRepository) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d: %w", id, models.ErrProductNotFound)
	}
	return &product, nil
}

func (r *MemoryProductRepository) FindByName(_ context.Context, name string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Name == name }), nil
}

func (r *MemoryProductRepository) FindByCategory(_ context.Context, category string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Category == category }), nil
}

func (r *MemoryProductRepository) FindByPriceRange(_ context.Context, low, high decimal.Decimal) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Price.GreaterThanOrEqual(low) && p.Price.LessThan(high)
	}), nil
}

// Save adds a new product or replaces the stored one with the same id.
func (r *MemoryProductRepository) Save(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[uint]models.Product)
	return nil
}

func (r *MemoryProductRepository) DecrementStock(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d: %w", id, models.ErrProductNotFound)
	}
	if product.Stock <= 0 {
		return &product, fmt.Errorf("product with id %d: %w", id, models.ErrProductSoldOut)
	}
	product.Stock--
	r.products[id] = product
	return &product, nil
}
