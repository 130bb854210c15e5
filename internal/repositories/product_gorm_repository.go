package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"productsvc/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// All retrieves all products from the database.
func (r *GORMProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with id %d: %w", id, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}
	return &product, nil
}

// FindByName returns the products whose name matches exactly.
func (r *GORMProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by name %q: %w", name, err)
	}
	return products, nil
}

// FindByCategory returns the products whose category matches exactly.
func (r *GORMProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by category %q: %w", category, err)
	}
	return products, nil
}

// FindByPriceRange returns the products priced in [low, high).
func (r *GORMProductRepository) FindByPriceRange(ctx context.Context, low, high decimal.Decimal) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("price >= ? AND price < ?", low, high).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products priced in [%s, %s): %w", low, high, err)
	}
	return products, nil
}

// Save creates the product when it has no id, or updates every column otherwise.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	}

	res := r.db.WithContext(ctx).Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every product.
func (r *GORMProductRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Product{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete all products: %w", err)
	}
	return nil
}

// DecrementStock runs a single conditional update so concurrent buys can
// never take stock below zero.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint) (*models.Product, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock > ?", id, 0).
		UpdateColumn("stock", gorm.Expr("stock - ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to decrement stock of product %d: %w", id, res.Error)
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return product, fmt.Errorf("product with id %d: %w", id, models.ErrProductSoldOut)
	}
	return product, nil
}
