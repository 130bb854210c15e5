package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"productsvc/internal/logger"
	"productsvc/internal/models"
	"productsvc/internal/repositories"
)

// ErrInvalidQuery is returned for list filters that cannot be applied.
var ErrInvalidQuery = errors.New("invalid query")

// MaxPriceBound is above every price a decimal(10,2) column can hold.
var MaxPriceBound = models.MaxPrice

// legacyPriceBands maps the old price=1|2|3 parameter to [low, high) bands.
var legacyPriceBands = map[string][2]decimal.Decimal{
	"1": {decimal.Zero, decimal.NewFromInt(25)},
	"2": {decimal.NewFromInt(25), decimal.NewFromInt(50)},
	"3": {decimal.NewFromInt(50), decimal.NewFromInt(75)},
}

// EventPublisher sends product events to a broker.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// ProductQuery holds the list filters, applied in field order: the first
// one set wins.
type ProductQuery struct {
	Category  string
	Name      string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	PriceBand string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListProducts returns the products matching the query, or all of them.
func (s *ProductService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	if q.Category != "" {
		return s.repo.FindByCategory(ctx, q.Category)
	}
	if q.Name != "" {
		return s.repo.FindByName(ctx, q.Name)
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		low, high := decimal.Zero, MaxPriceBound
		if q.MinPrice != nil {
			low = *q.MinPrice
		}
		if q.MaxPrice != nil {
			high = *q.MaxPrice
		}
		if low.IsNegative() {
			return nil, fmt.Errorf("%w: minPrice must not be negative", ErrInvalidQuery)
		}
		if high.LessThan(low) {
			return nil, fmt.Errorf("%w: maxPrice must not be lower than minPrice", ErrInvalidQuery)
		}
		return s.repo.FindByPriceRange(ctx, low, high)
	}
	if band, ok := legacyPriceBands[q.PriceBand]; ok {
		return s.repo.FindByPriceRange(ctx, band[0], band[1])
	}
	return s.repo.All(ctx)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateProduct stores a new product. Any id on the input is ignored.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, models.NewProductEvent(models.EventProductCreated, product))
	return nil
}

// UpdateProduct replaces every field of the product with the given id.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, product *models.Product) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	product.ID = id
	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, models.NewProductEvent(models.EventProductUpdated, product))
	return nil
}

// DeleteProduct deletes a product by its ID. Deleting an absent product succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, models.NewProductEvent(models.EventProductDeleted, product))
	return nil
}

// DeleteAllProducts removes every product.
func (s *ProductService) DeleteAllProducts(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.publish(ctx, models.NewProductEvent(models.EventProductsPurged, nil))
	return nil
}

// BuyProduct takes one unit of stock. A product with no stock left is
// returned unchanged together with models.ErrProductSoldOut.
func (s *ProductService) BuyProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.DecrementStock(ctx, id)
	if err != nil {
		return product, err
	}
	s.publish(ctx, models.NewProductEvent(models.EventProductBought, product))
	if product.Stock == 0 {
		s.publish(ctx, models.NewProductEvent(models.EventProductSoldOut, product))
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, event models.ProductEvent) {
	l := zerolog.Ctx(ctx).With().
		Str(logger.KeyTag, "ProductService publish").
		Str("event", event.Type).
		Uint(logger.KeyProductID, event.ProductID).
		Logger()

	if s.publisher == nil {
		l.Debug().Msg("event publisher is not configured, skipping event")
		return
	}
	if err := s.publisher.PublishEvent(event.Type, event); err != nil {
		l.Warn().Err(err).Msg("failed to publish product event")
		return
	}
	l.Debug().Msg("published product event")
}
