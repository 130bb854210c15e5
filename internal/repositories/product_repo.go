package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"productsvc/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByName(ctx context.Context, name string) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	// FindByPriceRange returns products with low <= price < high.
	FindByPriceRange(ctx context.Context, low, high decimal.Decimal) ([]models.Product, error)

	// Save inserts the product when it has no id yet, and updates the row
	// with the product's id otherwise.
	Save(ctx context.Context, product *models.Product) error
	// Delete removes the product with the given id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	// DecrementStock takes one unit of stock. It returns models.ErrProductSoldOut,
	// together with the unchanged product, when stock is already zero.
	DecrementStock(ctx context.Context, id uint) (*models.Product, error)
}
