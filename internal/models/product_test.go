package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productsvc/internal/models"
)

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Widget",
		"stock":       5,
		"price":       9.99,
		"description": "d",
		"category":    "tools",
	}
}

func TestProduct_Serialize(t *testing.T) {
	p := models.NewProduct("Widget", 5, decimal.RequireFromString("9.99"), "d", "tools")
	p.ID = 7

	got := p.Serialize()

	assert.Equal(t, models.ProductResponse{
		ID:          7,
		Name:        "Widget",
		Stock:       5,
		Price:       9.99,
		Description: "d",
		Category:    "tools",
	}, got)
}

func TestProduct_SerializeAllEmpty(t *testing.T) {
	got := models.SerializeAll(nil)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)
}

func TestProduct_RoundTrip(t *testing.T) {
	products := []*models.Product{
		models.NewProduct("Widget", 5, decimal.RequireFromString("9.99"), "d", "tools"),
		models.NewProduct("Steak", 0, decimal.Zero, "", "food"),
		models.NewProduct("Collar", 42, decimal.RequireFromString("74.5"), "leather collar", "pet"),
	}

	for _, original := range products {
		body, err := json.Marshal(original.Serialize())
		require.NoError(t, err)

		var decoded models.Product
		require.NoError(t, decoded.Deserialize(body))

		assert.Equal(t, original.Name, decoded.Name)
		assert.Equal(t, original.Stock, decoded.Stock)
		assert.True(t, original.Price.Equal(decoded.Price), "price %s != %s", original.Price, decoded.Price)
		assert.Equal(t, original.Description, decoded.Description)
		assert.Equal(t, original.Category, decoded.Category)
	}
}

func TestProduct_DeserializeCopiesIDWhenPresent(t *testing.T) {
	body := validBody()
	body["id"] = 12
	raw, _ := json.Marshal(body)

	p := models.Product{ID: 3}
	require.NoError(t, p.Deserialize(raw))
	assert.Equal(t, uint(12), p.ID)

	raw, _ = json.Marshal(validBody())
	p = models.Product{ID: 3}
	require.NoError(t, p.Deserialize(raw))
	assert.Equal(t, uint(3), p.ID)
}

func TestProduct_DeserializeAcceptsQuotedPrice(t *testing.T) {
	body := validBody()
	body["price"] = "12.50"
	raw, _ := json.Marshal(body)

	var p models.Product
	require.NoError(t, p.Deserialize(raw))
	assert.True(t, decimal.RequireFromString("12.5").Equal(p.Price))
}

func TestProduct_DeserializeMissingField(t *testing.T) {
	for _, field := range []string{"name", "stock", "price", "description", "category"} {
		t.Run(field, func(t *testing.T) {
			body := validBody()
			delete(body, field)
			raw, _ := json.Marshal(body)

			var p models.Product
			err := p.Deserialize(raw)

			var validationErr *models.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, []string{field}, validationErr.Fields)
			assert.Contains(t, err.Error(), "missing "+field)
		})
	}
}

func TestProduct_DeserializeNullCountsAsMissing(t *testing.T) {
	body := validBody()
	body["category"] = nil
	raw, _ := json.Marshal(body)

	var p models.Product
	err := p.Deserialize(raw)
	assert.EqualError(t, err, "Invalid product: missing category")
}

func TestProduct_DeserializeListsEveryMissingField(t *testing.T) {
	var p models.Product
	err := p.Deserialize([]byte(`{"name":"Widget"}`))

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"stock", "price", "description", "category"}, validationErr.Fields)
}

func TestProduct_DeserializeWrongType(t *testing.T) {
	testCases := []struct {
		name  string
		field string
		value interface{}
	}{
		{name: "stock as string", field: "stock", value: "five"},
		{name: "stock as float", field: "stock", value: 1.5},
		{name: "price as bool", field: "price", value: true},
		{name: "price as text", field: "price", value: "cheap"},
		{name: "name as number", field: "name", value: 10},
		{name: "category as object", field: "category", value: map[string]string{"a": "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := validBody()
			body[tc.field] = tc.value
			raw, _ := json.Marshal(body)

			var p models.Product
			err := p.Deserialize(raw)

			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, []string{tc.field}, validationErr.Fields)
			assert.Contains(t, err.Error(), "invalid "+tc.field)
		})
	}
}

func TestProduct_DeserializeNegativeValues(t *testing.T) {
	for _, field := range []string{"stock", "price"} {
		t.Run(field, func(t *testing.T) {
			body := validBody()
			body[field] = -1
			raw, _ := json.Marshal(body)

			var p models.Product
			err := p.Deserialize(raw)

			assert.EqualError(t, err, "Invalid product: negative "+field)
		})
	}
}

func TestProduct_DeserializeZeroStockAndPriceAreValid(t *testing.T) {
	body := validBody()
	body["stock"] = 0
	body["price"] = 0
	raw, _ := json.Marshal(body)

	var p models.Product
	require.NoError(t, p.Deserialize(raw))
	assert.Equal(t, 0, p.Stock)
	assert.True(t, p.Price.IsZero())
}

func TestProduct_DeserializeBadData(t *testing.T) {
	for _, body := range []string{"", "null", "[]", `[{"name":"x"}]`, `"text"`, "{not json"} {
		var p models.Product
		err := p.Deserialize([]byte(body))

		assert.EqualError(t, err, "Invalid product: body of request contained bad or no data", "body %q", body)
	}
}

func TestProduct_DeserializeTooLong(t *testing.T) {
	for _, field := range []string{"name", "category"} {
		t.Run(field, func(t *testing.T) {
			body := validBody()
			body[field] = strings.Repeat("x", 64)
			raw, _ := json.Marshal(body)

			var p models.Product
			err := p.Deserialize(raw)

			assert.EqualError(t, err, "Invalid product: too long "+field)
		})
	}

	body := validBody()
	body["name"] = strings.Repeat("é", 63)
	body["category"] = strings.Repeat("x", 63)
	raw, _ := json.Marshal(body)

	var p models.Product
	assert.NoError(t, p.Deserialize(raw))
}

func TestProduct_DeserializePriceOutOfRange(t *testing.T) {
	for _, price := range []interface{}{9.999, "0.001", 100000000, "100000000.00", "1e9"} {
		body := validBody()
		body["price"] = price
		raw, _ := json.Marshal(body)

		var p models.Product
		err := p.Deserialize(raw)

		assert.EqualError(t, err, "Invalid product: out of range price", "price %v", price)
	}
}

func TestProduct_DeserializePriceBounds(t *testing.T) {
	for _, price := range []string{"99999999.99", "9.990", "0.01"} {
		body := validBody()
		body["price"] = price
		raw, _ := json.Marshal(body)

		var p models.Product
		require.NoError(t, p.Deserialize(raw), "price %s", price)
		assert.True(t, decimal.RequireFromString(price).Equal(p.Price))
	}
}

func TestProduct_DeserializeIgnoresMalformedID(t *testing.T) {
	for _, id := range []interface{}{-1, 1.5, "abc", map[string]int{"a": 1}} {
		body := validBody()
		body["id"] = id
		raw, _ := json.Marshal(body)

		p := models.Product{ID: 3}
		require.NoError(t, p.Deserialize(raw), "id %v", id)
		assert.Equal(t, uint(3), p.ID)
		assert.Equal(t, "Widget", p.Name)
	}
}
