package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"productsvc/internal/middleware"
	"productsvc/internal/models"
	"productsvc/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)

	productRoutes := router.Group("/products")
	productRoutes.Get("", h.HandleGetProducts)
	productRoutes.Post("", middleware.RequireJSON(), h.HandleCreateProduct)
	productRoutes.Delete("", h.HandleDeleteProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", middleware.RequireJSON(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Put("/:id/buy", h.HandleBuyProduct)
}

// HandleIndex describes the service.
func (h *ProductHandler) HandleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Product REST API Service",
		"version": "1.0",
		"paths":   c.BaseURL() + "/products",
	})
}

// HandleGetProducts lists products, filtered by the first query parameter
// present out of category, name, minPrice/maxPrice and price.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	query := services.ProductQuery{
		Category:  c.Query("category"),
		Name:      c.Query("name"),
		PriceBand: c.Query("price"),
	}

	var err error
	if query.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		return err
	}
	if query.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.UserContext(), query)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	return c.JSON(models.SerializeAll(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product.Serialize())
}

// HandleCreateProduct creates a new product and points Location at it.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := product.Deserialize(c.Body()); err != nil {
		return err
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	c.Location(fmt.Sprintf("%s/products/%d", c.BaseURL(), product.ID))
	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleUpdateProduct replaces an existing product. The id in the path wins
// over any id in the body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := product.Deserialize(c.Body()); err != nil {
		return err
	}

	if err := h.service.UpdateProduct(c.UserContext(), id, &product); err != nil {
		return err
	}
	return c.JSON(product.Serialize())
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		// nothing with that id can exist
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := h.service.DeleteProduct(c.UserContext(), uint(id)); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteProducts removes every product.
func (h *ProductHandler) HandleDeleteProducts(c *fiber.Ctx) error {
	if err := h.service.DeleteAllProducts(c.UserContext()); err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleBuyProduct takes one unit of stock. Sold out products answer 409.
func (h *ProductHandler) HandleBuyProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.BuyProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product.Serialize())
}

func productID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("product with id %s: %s", raw, models.ErrProductNotFound))
	}
	return uint(id), nil
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a number, got %q", key, raw))
	}
	return &d, nil
}
